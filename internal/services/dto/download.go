package dto

// ---------------- Requests ----------------

// ConfirmDownloadRequest is the gate's final submit: the typed phrase and
// the acknowledgement checkbox, both validated server-side.
type ConfirmDownloadRequest struct {
	ConfirmText string `json:"confirm_text" validate:"required"`
	Agreed      bool   `json:"agreed"`
}

type UpdateGateRequest struct {
	ConfirmText *string `json:"confirm_text,omitempty"`
	Agreed      *bool   `json:"agreed,omitempty"`
}

// ---------------- Responses ----------------

// GateStateResponse mirrors the download gate snapshot.
type GateStateResponse struct {
	State        string `json:"state"`
	ConfirmValid bool   `json:"confirm_valid"`
	Agreed       bool   `json:"agreed"`
	IsRated      bool   `json:"is_rated"`
	CheckFailed  bool   `json:"check_failed"`
	CanProceed   bool   `json:"can_proceed"`
}

type DownloadResponse struct {
	Success   bool   `json:"success"`
	URL       string `json:"url"`
	FileName  string `json:"file_name"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}
