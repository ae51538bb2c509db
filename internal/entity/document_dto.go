package entity

// UploadDocumentResponse is the body of POST /document/upload
type UploadDocumentResponse struct {
	Message         string `json:"message"`
	DocumentID      string `json:"document_id"`
	ChunksProcessed int    `json:"chunks_processed"`
}

// DocumentListResponse is the body of GET /documents
type DocumentListResponse struct {
	Documents []*Document `json:"documents"`
	Total     int         `json:"total"`
}
