package crawler

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"octane-crawler/pkg/models"
)

// WriteReport renders report as YAML
func WriteReport(w io.Writer, report *models.CrawlReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode crawl report: %w", err)
	}
	return enc.Close()
}
