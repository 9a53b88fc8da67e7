package models

// AnalyzeDocumentRequest is the body of a single-document feedback submission.
type AnalyzeDocumentRequest struct {
	Content     StructuredContent `json:"content" validate:"required"`
	Version     int               `json:"version" validate:"required,min=1"`
	UserRemarks string            `json:"user_remarks,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
}

// AnalyzeDocumentResponse returns the committed revision plus the forward
// clone the editor opens next.
type AnalyzeDocumentResponse struct {
	Message         string            `json:"message"`
	CurrentRevision *DocumentRevision `json:"current_version_data"`
	NextRevision    *DocumentRevision `json:"next_version_data"`
}

type RollbackRequest struct {
	Version int `json:"version" validate:"required,min=1"`
}

type AnalyzeCompanyRequest struct {
	CompanyName string `json:"company_name" validate:"required"`
}

type AnalyzeCompanyResponse struct {
	Message         string           `json:"message"`
	CompanyAnalysis *CompanyAnalysis `json:"company_analysis"`
}

// BatchAnalyzeRequest enqueues feedback generation for several independent
// documents at once.
type BatchAnalyzeRequest struct {
	Documents []BatchAnalyzeItem `json:"documents" validate:"required,min=1"`
}

type BatchAnalyzeItem struct {
	JobTitle    string            `json:"job_title" validate:"required"`
	DocType     DocType           `json:"doc_type" validate:"required"`
	Version     int               `json:"version" validate:"required,min=1"`
	Content     StructuredContent `json:"content" validate:"required"`
	UserRemarks string            `json:"user_remarks,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
}

type BatchAnalyzeResponse struct {
	JobIDs []string `json:"job_ids"`
	Status string   `json:"status"`
}

type AnalysisJobResponse struct {
	ID           string  `json:"id"`
	Status       string  `json:"status"`
	Feedback     *string `json:"feedback,omitempty"`
	NextVersion  *int    `json:"next_version,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}
