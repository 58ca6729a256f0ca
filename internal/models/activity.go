package models

type ActivityEntry struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Emoji   string `json:"emoji,omitempty"`
}

type ActivityLog struct {
	Entries []ActivityEntry `json:"entries"`
}
