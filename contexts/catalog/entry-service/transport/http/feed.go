package http

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// RSS 2.0 document types rendered by GET /feed.

type RSSFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel RSSChannel `xml:"channel"`
}

type RSSChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []RSSItem `xml:"item"`
}

type RSSItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description,omitempty"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate"`
	Categories  []string `xml:"category,omitempty"`
}

// FeedItemInput is the adapter-facing shape a feed item is built from.
type FeedItemInput struct {
	EntryID     string
	Title       string
	Description string
	RecordedAt  time.Time
	Tags        []string
}

// BuildFeed renders the newest entries as an RSS 2.0 feed rooted at baseURL.
func BuildFeed(baseURL string, now time.Time, items []FeedItemInput) RSSFeed {
	base := strings.TrimRight(baseURL, "/")
	feed := RSSFeed{
		Version: "2.0",
		Channel: RSSChannel{
			Title:         "patchbay: recent entries",
			Link:          base + "/",
			Description:   "Newest audio patch recordings in the catalog.",
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Items:         make([]RSSItem, 0, len(items)),
		},
	}
	for _, item := range items {
		feed.Channel.Items = append(feed.Channel.Items, RSSItem{
			Title:       item.Title,
			Link:        fmt.Sprintf("%s/api/entries/%s", base, item.EntryID),
			Description: item.Description,
			GUID:        item.EntryID,
			PubDate:     item.RecordedAt.UTC().Format(time.RFC1123Z),
			Categories:  item.Tags,
		})
	}
	return feed
}
