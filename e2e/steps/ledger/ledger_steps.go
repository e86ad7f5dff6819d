package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	GET(path string, headers map[string]string) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers ledger step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ledgerSteps{tc: tc}

	ctx.Step(`^I create a record for patient "([^"]*)" with hash "([^"]*)"$`, steps.createRecord)
	ctx.Step(`^I revoke record (\d+)$`, steps.revokeRecord)
	ctx.Step(`^I request access to record (\d+)$`, steps.requestAccess)
	ctx.Step(`^I view record (\d+)$`, steps.viewRecord)
	ctx.Step(`^I view the grant for record (\d+)$`, steps.viewGrant)
	ctx.Step(`^I view the ledger status$`, steps.viewStatus)
	ctx.Step(`^the ledger status should be granted (-?\d+), pending (-?\d+), revoked (-?\d+), total (-?\d+)$`, steps.statusShouldBe)
}

type ledgerSteps struct {
	tc TestContext
}

func (s *ledgerSteps) createRecord(ctx context.Context, patientID, dataHash string) error {
	return s.tc.POST("/records", map[string]string{
		"patient_id": patientID,
		"data_hash":  dataHash,
	})
}

func (s *ledgerSteps) revokeRecord(ctx context.Context, id int) error {
	return s.tc.POST(fmt.Sprintf("/records/%d/revoke", id), nil)
}

func (s *ledgerSteps) requestAccess(ctx context.Context, id int) error {
	return s.tc.POST(fmt.Sprintf("/records/%d/access", id), nil)
}

func (s *ledgerSteps) viewRecord(ctx context.Context, id int) error {
	return s.tc.GET(fmt.Sprintf("/records/%d", id), nil)
}

func (s *ledgerSteps) viewGrant(ctx context.Context, id int) error {
	return s.tc.GET(fmt.Sprintf("/records/%d/grant", id), nil)
}

func (s *ledgerSteps) viewStatus(ctx context.Context) error {
	return s.tc.GET("/status", nil)
}

func (s *ledgerSteps) statusShouldBe(ctx context.Context, granted, pending, revoked, total int) error {
	if err := s.viewStatus(ctx); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 200 {
		return fmt.Errorf("status endpoint returned %d", status)
	}

	var got struct {
		Granted int `json:"granted"`
		Pending int `json:"pending"`
		Revoked int `json:"revoked"`
		Total   int `json:"total"`
	}
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &got); err != nil {
		return fmt.Errorf("failed to parse status: %w", err)
	}
	if got.Granted != granted || got.Pending != pending || got.Revoked != revoked || got.Total != total {
		return fmt.Errorf("expected granted=%d pending=%d revoked=%d total=%d, got %+v",
			granted, pending, revoked, total, got)
	}
	return nil
}
