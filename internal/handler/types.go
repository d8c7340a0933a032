package handler

type createDraftRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type saveDraftRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

type likeCountResponse struct {
	TotalLikes int64 `json:"total_likes"`
}
