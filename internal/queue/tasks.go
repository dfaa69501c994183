package queue

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue = "default"

	TaskInvoiceGenerate = "invoice:generate"
)

type InvoiceGeneratePayload struct {
	OrderID int64 `json:"order_id"`
	UserID  int64 `json:"user_id"`
}

func NewInvoiceGenerateTask(payload InvoiceGeneratePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInvoiceGenerate, body), nil
}
