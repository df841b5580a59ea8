package crawler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"octane-crawler/pkg/config"
	"octane-crawler/pkg/fetch"
	"octane-crawler/pkg/frontier"
	"octane-crawler/pkg/models"
	"octane-crawler/pkg/parse"
	"octane-crawler/pkg/process"
	"octane-crawler/pkg/storage"
	"octane-crawler/pkg/utils"
)

// Crawler runs one crawl: fetch the seed page, collect the links it references, persist
// them to the link database, pause, and parse the database back. Exactly one page is
// fetched per Run; discovered links are recorded, not visited.
type Crawler struct {
	log    *logrus.Entry
	appCfg *config.AppConfig

	// Core components
	fetcher     fetch.PageFetcher
	extractor   *process.LinkExtractor
	linkDB      *frontier.LinkDB
	rateLimiter *fetch.RateLimiter

	// Optional side records, nil when disabled
	dumper *storage.ResponseDumper
	ledger storage.LedgerWriter
}

// NewCrawler creates a Crawler from its required components
func NewCrawler(
	appCfg *config.AppConfig,
	baseLogger *logrus.Entry,
	fetcher fetch.PageFetcher,
	extractor *process.LinkExtractor,
	linkDB *frontier.LinkDB,
	rateLimiter *fetch.RateLimiter,
) *Crawler {
	return &Crawler{
		log:         baseLogger,
		appCfg:      appCfg,
		fetcher:     fetcher,
		extractor:   extractor,
		linkDB:      linkDB,
		rateLimiter: rateLimiter,
	}
}

// WithDumper enables raw response dumps
func (c *Crawler) WithDumper(d *storage.ResponseDumper) *Crawler {
	c.dumper = d
	return c
}

// WithLedger enables fetch ledger records
func (c *Crawler) WithLedger(l storage.LedgerWriter) *Crawler {
	c.ledger = l
	return c
}

// Run executes both phases. Fetch, extraction, dump, ledger and reload problems are
// logged and absorbed; only a failure to write the link database is returned, along
// with the partial report.
func (c *Crawler) Run(ctx context.Context) (*models.CrawlReport, error) {
	seed := models.Link{Host: c.appCfg.Seed.Host, Path: c.appCfg.Seed.Path}
	report := &models.CrawlReport{
		RunID:      uuid.NewString(),
		Seed:       seed,
		LinkDBPath: c.linkDB.Path(),
		StartedAt:  time.Now(),
	}
	runLog := c.log.WithField("run_id", report.RunID)

	// Phase 1: fetch and discover
	front := frontier.New()
	c.discover(ctx, runLog, seed, front, report)
	report.Frontier = front.Links()
	runLog.Infof("Frontier holds %d links", front.Len())

	// Phase 2: persist and reload
	if _, err := c.linkDB.Save(front.All()); err != nil {
		runLog.Errorf("Cannot write link database: %v", err)
		report.FinishedAt = time.Now()
		return report, utils.WrapErrorf(err, "persisting frontier to %s", c.linkDB.Path())
	}

	runLog.Infof("Waiting %v before reloading the link database", c.rateLimiter.Delay())
	if err := c.rateLimiter.ApplyDelay(ctx); err != nil {
		runLog.Warnf("Politeness delay interrupted: %v", err)
	}

	reloaded, err := c.linkDB.Load(func(link models.Link) {
		runLog.WithFields(logrus.Fields{"host": link.Host, "path": link.Path}).Debug("Reloaded link")
	})
	if err != nil {
		runLog.Warnf("Link database reload stopped early: %v", err)
	}
	report.Reloaded = reloaded
	runLog.Infof("Reloaded %d link records from %s", reloaded, c.linkDB.Path())

	report.FinishedAt = time.Now()
	return report, nil
}

// discover fetches seed and appends every link found in the response to front
func (c *Crawler) discover(ctx context.Context, runLog *logrus.Entry, seed models.Link, front *frontier.Frontier, report *models.CrawlReport) {
	pageLog := runLog.WithFields(logrus.Fields{"host": seed.Host, "path": seed.Path})
	pageLog.Info("Fetching seed page")

	record := &models.FetchRecord{RunID: report.RunID, LastAttempt: time.Now()}
	defer c.recordFetch(pageLog, seed, record)

	result := c.fetcher.Fetch(ctx, seed.Host, seed.Path)
	report.Outcome = string(result.Outcome)
	if result.Outcome != fetch.OutcomeOK {
		record.Status = models.FetchStatusFailure
		record.ErrorType = utils.CategorizeError(result.Err)
		pageLog.WithField("outcome", result.Outcome).Warnf("Seed fetch failed, frontier stays empty: %v", result.Err)
		return
	}

	body := result.Body
	record.Status = models.FetchStatusSuccess
	record.Bytes = len(body)
	record.ContentHash = utils.CalculateStringSHA256(body)
	pageLog.WithField("outcome", result.Outcome).Infof("Fetched %d bytes", len(body))

	if c.dumper != nil {
		dumpPath, err := c.dumper.Dump(seed.Host, seed.Path, []byte(body))
		if err != nil {
			pageLog.Warnf("Could not dump raw response: %v", err)
		} else {
			report.DumpPath = dumpPath
		}
	}

	// info keeps the status line even when the body could not be parsed
	info, err := parse.InspectResponse(body)
	if err != nil {
		pageLog.Warnf("Could not inspect response (%s): %v", utils.CategorizeError(err), err)
	}
	record.StatusCode, record.Title = info.StatusCode, info.Title
	report.StatusCode, report.Title = info.StatusCode, info.Title
	if info.StatusCode != 0 && !info.IsSuccess() {
		pageLog.Warnf("Seed responded with %s; extracting links anyway", info.Status)
	}

	for _, pass := range c.extractor.Extract(body) {
		passLog := pageLog.WithField("pass", pass.Pass)
		if pass.Err != nil {
			// Already reported by the extractor
			continue
		}
		found := 0
		for href := range pass.Hrefs {
			link := parse.ResolveHref(seed.Host, href)
			link.Path = parse.RootPath(link.Path)
			front.Append(link)
			found++
			passLog.WithFields(logrus.Fields{"href": href, "link": link.String()}).Debug("Discovered link")
		}
		passLog.Debugf("Pass found %d links", found)
	}
	record.LinksFound = front.Len()
}

func (c *Crawler) recordFetch(pageLog *logrus.Entry, link models.Link, record *models.FetchRecord) {
	if c.ledger == nil {
		return
	}
	if err := c.ledger.RecordFetch(link, record); err != nil {
		pageLog.Warnf("Could not record fetch in ledger: %v", err)
	}
}
