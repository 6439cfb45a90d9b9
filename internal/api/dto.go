package api

import (
	"github.com/shaiso/stemd/internal/domain"
	"github.com/shaiso/stemd/internal/state"
)

// SubmitJobRequest — тело запроса на обработку.
type SubmitJobRequest struct {
	SourceAddress      string `json:"source_address"`
	DestinationAddress string `json:"destination_address"`
}

// ToDomain преобразует запрос в доменную заявку.
func (r SubmitJobRequest) ToDomain() domain.Request {
	return domain.Request{
		SourceAddress:      r.SourceAddress,
		DestinationAddress: r.DestinationAddress,
	}
}

// StateResponse — снимок состояния сервиса.
type StateResponse struct {
	Logs         []string `json:"logs"`
	StartedJobs  int      `json:"started_jobs"`
	FinishedJobs int      `json:"finished_jobs"`
}

// StateFromSnapshot преобразует снимок в ответ API.
func StateFromSnapshot(snap state.Snapshot) StateResponse {
	logs := snap.Logs
	if logs == nil {
		logs = []string{}
	}

	return StateResponse{
		Logs:         logs,
		StartedJobs:  snap.StartedJobs,
		FinishedJobs: snap.FinishedJobs,
	}
}
