package dto

type UploadResponseDTO struct {
	Message   string   `json:"message"`
	Files     []string `json:"files"`
	AllImages []string `json:"allImages"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}

type HealthResponseDTO struct {
	Status string `json:"status"`
}
