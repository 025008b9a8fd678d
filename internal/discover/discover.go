// Package discover pulls the current raid and mythic+ rotation from the
// warcraftlogs zone sidebar, so a configuration does not need hand-kept
// content lists.
package discover

import (
	"context"
	"fmt"

	"talentsync/internal/telemetry"
	"talentsync/internal/wow"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://www.warcraftlogs.com/zone-sidebar/v2/"

const report_discover_fetch = "discover.fetch-sidebar"

// Content is the discovered rotation, already slugged for build URLs.
type Content struct {
	RaidBosses []string `json:"raidBosses"`
	Dungeons   []string `json:"dungeons"`
}

// sidebar mirrors the zone-sidebar payload. Only the fields the extraction
// walks are declared, everything else is dropped on decode.
type sidebar []struct {
	ID         string `json:"id"`
	Expansions []struct {
		Panel struct {
			Sections []struct {
				Header struct {
					ContentTypeName string `json:"contentTypeName"`
				} `json:"header"`
				Children []struct {
					Title string `json:"title"`
					Type  string `json:"type"`
				} `json:"children"`
			} `json:"sections"`
		} `json:"panel"`
	} `json:"expansions"`
}

type Client struct {
	http    *resty.Client
	baseURL string
	tel     telemetry.API
}

func NewClient(baseURL string, tel telemetry.API) *Client {
	tel = telemetry.NewScopedAPI("discover", tel)
	client := resty.New()
	telemetry.InstrumentResty(client, tel)
	return &Client{
		http:    client,
		baseURL: baseURL,
		tel:     tel,
	}
}

// CurrentContent fetches the sidebar and extracts the current rotation. An
// empty result is not an error, off-season windows legitimately list nothing.
func (c *Client) CurrentContent(ctx context.Context) (Content, error) {
	var data sidebar
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&data).
		Get(c.baseURL)
	if err != nil {
		c.tel.ReportBroken(report_discover_fetch, err, c.baseURL)
		return Content{}, err
	}
	if res.StatusCode() != 200 {
		err := fmt.Errorf("fetch zone sidebar: status %d", res.StatusCode())
		c.tel.ReportBroken(report_discover_fetch, err, c.baseURL)
		return Content{}, err
	}

	return extract(data), nil
}

// extract walks the first expansion of each content block. Raid bosses come
// from every "zones" section; dungeons come from the first section only,
// which is the running season.
func extract(data sidebar) Content {
	var content Content

	for _, block := range data {
		if block.ID != "raid-content" || len(block.Expansions) == 0 {
			continue
		}
		for _, section := range block.Expansions[0].Panel.Sections {
			if section.Header.ContentTypeName != "zones" {
				continue
			}
			for _, child := range section.Children {
				if child.Type == "boss" && child.Title != "" {
					content.RaidBosses = append(content.RaidBosses, wow.Slugify(child.Title))
				}
			}
		}
	}

	for _, block := range data {
		if block.ID != "dungeons-content" || len(block.Expansions) == 0 {
			continue
		}
		sections := block.Expansions[0].Panel.Sections
		if len(sections) == 0 {
			continue
		}
		for _, child := range sections[0].Children {
			if child.Type == "boss" && child.Title != "" {
				content.Dungeons = append(content.Dungeons, wow.Slugify(child.Title))
			}
		}
	}

	return content
}
