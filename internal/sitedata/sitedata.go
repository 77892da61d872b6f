// Package sitedata manages the editable site configuration: the profile and
// background singletons and the ordered category collection.
package sitedata

import (
	"github.com/linkpage/service/internal/docstore"
)

// Collections and singleton document ids in the document store.
const (
	configCollection     = "config"
	profileDocID         = "profile"
	backgroundDocID      = "background"
	categoriesCollection = "categories"
)

// SiteData is the public site configuration returned to readers.
type SiteData struct {
	Profile         docstore.Document `json:"profile"`
	BackgroundImage string            `json:"backgroundImage"`
}

// SaveRequest is a partial update of the site configuration. A nil section is
// left untouched; a present section fully replaces the stored state. An empty
// (non-nil) Categories slice clears the collection.
type SaveRequest struct {
	Profile         docstore.Document   `json:"profile"`
	BackgroundImage string              `json:"backgroundImage"`
	Categories      []docstore.Document `json:"categories"`
}

// defaultProfile is served before any admin edit has been saved.
var defaultProfile = docstore.Document{
	"name":   "Mẹ Bỉm Sữa Review",
	"bio":    "Chia sẻ kinh nghiệm nuôi dạy con & săn deal hot cho bé yêu 🍼 Follow để nhận voucher mỗi ngày nhé!",
	"avatar": "https://lh3.googleusercontent.com/aida-public/AB6AXuD4-4nseipxqo0kUCZE9uFM44MdTSYdXZK7Ip6KdlyymxoMUAFfS7Ve06-Q9hHGxjPluC6X1APdZdN4rucbf81eaxjkm_YhmgvFAXw4pcASA-ix8llEXZC5nUN6SacEV2XF_k-dtb9Yva94yHVEtkau6hvENT-rlCm-EdLda-wSIKp47tOJkZDAYu-1VrHNM-2ra5qRFgsaqhl86noxOuc2f75yKQwk7z-_QUC1XkJ0rEhR3XHAN6BLxLkkhAlcI2nDPjqbfeDSZ3h2",
}

// defaultBackgroundURL is served before a background image has been set.
const defaultBackgroundURL = "https://lh3.googleusercontent.com/aida-public/AB6AXuC8aAcLjxpyVZyPCmL72kiLClze8F-26nZRzXjNA-qmY4h-RzSJhNeTrZLXfhEr5bEkoErKSv2uzqv6I_Z1c0WGToWBBo8lmLUNeAu_LDe-B6S3W7w34pYYpdPQrqxAz8xq3TpZqdZYGIbp69Ua_oGY5QBQh5-87_vbnvnV7ZBjOqxAz-WTUZIAhSwh7ZlLA7pHlcbVbQ-UyX1jMuk4iQ_-RC6DX9nJz-Q_qINfaQcsZmJBDXDCP-yJdKV9S66Jyooe_Tw2Che6pEPO"
