package models

import "encoding/json"

// Listing shapes shared by reddit's search endpoint and its post document
// endpoint. Replies stays raw JSON because reddit sends an empty string
// instead of a listing when a comment has no children.
type RedditListing struct {
	Kind string            `json:"kind"`
	Data RedditListingData `json:"data"`
}

type RedditListingData struct {
	After    string        `json:"after"`
	Children []RedditChild `json:"children"`
}

type RedditChild struct {
	Kind string          `json:"kind"`
	Data RedditChildData `json:"data"`
}

type RedditChildData struct {
	Title     string          `json:"title"`
	Selftext  string          `json:"selftext"`
	Author    string          `json:"author"`
	Body      string          `json:"body"`
	Permalink string          `json:"permalink"`
	Subreddit string          `json:"subreddit"`
	Ups       int             `json:"ups"`
	Replies   json.RawMessage `json:"replies"`
}
