package api

type Profile struct {
	DisplayName   string `json:"displayName"`
	MID           string `json:"mid"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

type PagingRequest struct {
	Start   int    `json:"start"`
	Display int    `json:"display"`
	SortBy  string `json:"sortBy"`
}

type ProfileBatch struct {
	Contacts      []Profile     `json:"contacts"`
	Count         int           `json:"count"`
	Display       int           `json:"display"`
	Start         int           `json:"start"`
	Total         int           `json:"total"`
	PagingRequest PagingRequest `json:"pagingRequest"`
}

type SendResult struct {
	Failed    []string `json:"failed"`
	MessageID string   `json:"messageId"`
	Timestamp int64    `json:"timestamp"`
	Version   int      `json:"version"`
}
