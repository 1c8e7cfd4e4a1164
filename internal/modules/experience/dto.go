package experience

import "backoffice/internal/domain"

type ListQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type ListResult struct {
	Items []domain.Experience `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
