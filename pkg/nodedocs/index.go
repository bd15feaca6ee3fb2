package nodedocs

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"nodediff/pkg/errors"
)

// Modules returns the ordered list of module names linked from the HTML
// index page of a release line.
//
// The page carries no stable markup for its table of contents: the module
// list is simply the second unordered list in the document, and each entry
// links to <module>.html. Selecting it by position is brittle by nature; a
// reorganized page yields an empty (or wrong) list, which surfaces as an
// error here rather than a silent empty diff.
func (c *Client) Modules(version string) ([]string, error) {
	indexURL := c.apiURL(version) + "index.html"

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid base URL %s", c.baseURL)
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(u.Hostname()),
	)
	collector.UserAgent = "nodediff-scraper/1.0"

	var names []string
	var fetchErr error

	collector.OnError(func(r *colly.Response, err error) {
		// A missing index page means the release line has no published docs.
		if r.StatusCode == 404 {
			fetchErr = errors.New(errors.ErrCodeNotFound, "no documentation index for v%s at %s", version, r.Request.URL)
			return
		}
		fetchErr = errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s: status %d", r.Request.URL, r.StatusCode)
	})

	collector.OnHTML("body", func(e *colly.HTMLElement) {
		e.DOM.Find("ul").Eq(1).Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || !strings.HasSuffix(href, ".html") {
				return
			}
			name := strings.TrimSuffix(path.Base(href), ".html")
			if name == "" || name == "index" || name == "documentation" {
				return
			}
			names = append(names, name)
		})
	})

	if err := collector.Visit(indexURL); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "visit %s", indexURL)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeUnsupported, "no modules found on %s", indexURL)
	}
	return names, nil
}
