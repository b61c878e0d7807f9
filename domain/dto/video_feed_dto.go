package dto

import (
	"encoding/xml"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedFeed is returned when a notification body cannot be decoded into
// a complete video feed. Decoding fails closed: a partially populated feed is
// never returned.
var ErrMalformedFeed = errors.New("malformed video feed")

// VideoFeed is the Atom document delivered by the PubSubHubbub hub when a
// video is published or updated.
type VideoFeed struct {
	XMLName xml.Name  `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string    `xml:"title"`
	Updated time.Time `xml:"updated"`
	Entry   Entry     `xml:"entry"`
}

type Entry struct {
	ID        string    `xml:"id"`
	VideoID   string    `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	ChannelID string    `xml:"http://www.youtube.com/xml/schemas/2015 channelId"`
	Title     string    `xml:"title"`
	Link      Link      `xml:"link"`
	Author    Author    `xml:"author"`
	Published time.Time `xml:"published"`
	Updated   time.Time `xml:"updated"`
}

type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type Author struct {
	Name string `xml:"name"`
	URI  string `xml:"uri"`
}

// DecodeVideoFeed parses a raw notification body. Every field the submission
// pipeline relies on must be present, otherwise ErrMalformedFeed is returned.
func DecodeVideoFeed(data []byte) (*VideoFeed, error) {
	var feed VideoFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	entry := feed.Entry
	switch {
	case entry.ID == "":
		return nil, fmt.Errorf("%w: missing entry id", ErrMalformedFeed)
	case entry.VideoID == "":
		return nil, fmt.Errorf("%w: missing video id", ErrMalformedFeed)
	case entry.ChannelID == "":
		return nil, fmt.Errorf("%w: missing channel id", ErrMalformedFeed)
	case entry.Title == "":
		return nil, fmt.Errorf("%w: missing entry title", ErrMalformedFeed)
	case entry.Link.Href == "":
		return nil, fmt.Errorf("%w: missing video link", ErrMalformedFeed)
	case entry.Published.IsZero():
		return nil, fmt.Errorf("%w: missing published timestamp", ErrMalformedFeed)
	case entry.Updated.IsZero():
		return nil, fmt.Errorf("%w: missing updated timestamp", ErrMalformedFeed)
	}

	return &feed, nil
}
