package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/config"
	"octane-crawler/pkg/utils"
)

// Outcome classifies a fetch attempt
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeTimedOut         Outcome = "timed_out"
	OutcomeConnectionFailed Outcome = "connection_failed"
	OutcomeResolutionFailed Outcome = "resolution_failed"
)

// OutcomeOf maps a fetch error onto its Outcome
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, utils.ErrResolution):
		return OutcomeResolutionFailed
	case errors.Is(err, utils.ErrTimeout):
		return OutcomeTimedOut
	default:
		return OutcomeConnectionFailed
	}
}

// Result is the typed outcome of one fetch. Body holds the raw response (headers and
// body, undecoded) and is only set when Outcome is OutcomeOK.
type Result struct {
	Outcome Outcome
	Body    string
	Err     error
}

// PageFetcher performs a single GET of host+path. Implementations never retry.
type PageFetcher interface {
	Fetch(ctx context.Context, host, path string) Result
}

// Resolver is the subset of *net.Resolver the Fetcher needs
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// Fetcher speaks HTTP/1.1 directly over a TCP socket: resolve to IPv4, connect to the
// configured port, send one GET with "Connection: close", then read until the peer
// closes.
type Fetcher struct {
	resolver Resolver
	dialer   *net.Dialer
	cfg      config.FetchConfig
	log      *logrus.Entry
}

// NewFetcher creates a Fetcher using the system resolver
func NewFetcher(cfg config.FetchConfig, log *logrus.Entry) *Fetcher {
	return &Fetcher{
		resolver: net.DefaultResolver,
		dialer:   NewDialer(cfg, log),
		cfg:      cfg,
		log:      log,
	}
}

// WithResolver replaces the resolver, returning the Fetcher for chaining
func (f *Fetcher) WithResolver(r Resolver) *Fetcher {
	f.resolver = r
	return f
}

// BuildRequest renders the GET request sent for host and path
func BuildRequest(host, path, accept, userAgent string) string {
	var b strings.Builder
	b.WriteString("GET " + path + " HTTP/1.1\r\n")
	b.WriteString("Host: " + host + "\r\n")
	b.WriteString("Accept: " + accept + "\r\n")
	b.WriteString("User-Agent: " + userAgent + "\r\n")
	b.WriteString("Connection: close\r\n")
	b.WriteString("\r\n")
	return b.String()
}

// Fetch performs the GET and returns its typed Result. It is attempted exactly once.
func (f *Fetcher) Fetch(ctx context.Context, host, path string) Result {
	body, err := f.fetch(ctx, host, path)
	outcome := OutcomeOf(err)
	if err != nil {
		f.log.WithFields(logrus.Fields{"host": host, "path": path, "outcome": outcome}).Warnf("Fetch failed: %v", err)
		return Result{Outcome: outcome, Err: err}
	}
	return Result{Outcome: outcome, Body: body}
}

func (f *Fetcher) fetch(ctx context.Context, host, path string) (string, error) {
	reqLog := f.log.WithFields(logrus.Fields{"host": host, "path": path})

	// --- Resolve ---
	ips, err := f.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: resolving %s: %w", utils.ErrTimeout, host, err)
		}
		return "", fmt.Errorf("%w: %s: %w", utils.ErrResolution, host, err)
	}
	if len(ips) == 0 {
		return "", fmt.Errorf("%w: %s has no IPv4 address", utils.ErrResolution, host)
	}
	addr := net.JoinHostPort(ips[0].String(), strconv.Itoa(f.cfg.Port))

	// --- Connect ---
	conn, err := f.dialer.DialContext(ctx, "tcp4", addr)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: connecting to %s: %w", utils.ErrTimeout, addr, err)
		}
		return "", fmt.Errorf("%w: %s: %w", utils.ErrConnection, addr, err)
	}
	defer conn.Close()

	if f.cfg.ReadTimeout > 0 {
		conn.SetDeadline(time.Now().Add(f.cfg.ReadTimeout))
	}
	// Cancelling ctx unblocks any pending read or write
	stop := context.AfterFunc(ctx, func() { conn.SetDeadline(time.Now()) })
	defer stop()

	// --- Send ---
	req := BuildRequest(host, path, f.cfg.Accept, f.cfg.UserAgent)
	reqLog.Infof("Fetch begin: %s", addr)
	reqLog.Debugf("Full HTTP client request:\n%s", req)
	if _, err := io.WriteString(conn, req); err != nil {
		return "", f.wrapIOError(ctx, utils.ErrRequestWrite, err)
	}

	// --- Receive until the peer closes ---
	bufSize := f.cfg.ReadBufferSize
	if bufSize <= 0 {
		bufSize = config.DefaultReadBufferSize
	}
	buf := make([]byte, bufSize)
	var response strings.Builder
	for {
		n, readErr := conn.Read(buf)
		response.Write(buf[:n])
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return "", f.wrapIOError(ctx, utils.ErrResponseRead, readErr)
		}
	}

	reqLog.WithField("bytes", response.Len()).Info("Fetch end")
	reqLog.Debugf("Full HTTP client response:\n%s", response.String())
	return response.String(), nil
}

// wrapIOError reports deadline and cancellation as ErrTimeout, anything else as a
// connection-level failure of the given kind
func (f *Fetcher) wrapIOError(ctx context.Context, kind, err error) error {
	if isTimeout(err) || ctx.Err() != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w: %w", utils.ErrTimeout, ctxErr, err)
		}
		return fmt.Errorf("%w: %w", utils.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w: %w", utils.ErrConnection, kind, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
