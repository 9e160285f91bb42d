package progress

// NoopProgress - пустая реализация Progress.
type NoopProgress struct{}

// NewNoOp создаёт NoopProgress.
func NewNoOp() Progress {
	return &NoopProgress{}
}

// Start ничего не делает.
func (p *NoopProgress) Start(_ string) {}

// Update ничего не делает.
func (p *NoopProgress) Update(_ int64, _ string) {}

// SetTotal ничего не делает.
func (p *NoopProgress) SetTotal(_ int64) {}

// Finish ничего не делает.
func (p *NoopProgress) Finish() {}
