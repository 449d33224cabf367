package domain

// WorkflowStatus はワークフロー全体の進行段階です。
type WorkflowStatus string

const (
	StatusIdle             WorkflowStatus = "IDLE"
	StatusGeneratingIdeas  WorkflowStatus = "GENERATING_IDEAS"
	StatusIdeasReady       WorkflowStatus = "IDEAS_READY"
	StatusGeneratingSlides WorkflowStatus = "GENERATING_SLIDES"
	StatusGeneratingImages WorkflowStatus = "GENERATING_IMAGES"
	StatusCompleted        WorkflowStatus = "COMPLETED"
)

// IsBusy は生成処理が進行中の状態かどうかを返します。
func (s WorkflowStatus) IsBusy() bool {
	switch s {
	case StatusGeneratingIdeas, StatusGeneratingSlides, StatusGeneratingImages:
		return true
	}
	return false
}
