package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kinfolkhq/kinfolk/db/tables"
	"github.com/kinfolkhq/kinfolk/events/event"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type capturingAuditor struct {
	event   string
	payload tables.MapStructure
}

func (c *capturingAuditor) addToAuditLog(event string, payload tables.MapStructure) error {
	c.event = event
	c.payload = payload
	return nil
}

func TestFamilyCreatedListenerRecordsName(t *testing.T) {
	assert := assert.New(t)
	auditor := &capturingAuditor{}
	l := &familyCreatedListener{store: auditor, log: zaptest.NewLogger(t)}
	createdBy := uuid.New()
	err := l.Handle(context.Background(), &event.FamilyCreated{
		FamilyID:   1,
		PublicID:   uuid.New(),
		FamilyName: "Ortega",
		CreatedBy:  createdBy,
	})
	assert.NoError(err)
	assert.Equal(string(event.FamilyCreatedEvent), auditor.event)
	assert.Equal("Ortega", auditor.payload["name"])
	assert.Equal(createdBy.String(), auditor.payload["created_by"])
}

func TestProjectCreatedListenerRecordsName(t *testing.T) {
	assert := assert.New(t)
	auditor := &capturingAuditor{}
	l := &projectCreatedListener{store: auditor, log: zaptest.NewLogger(t)}
	projectID := uuid.New()
	err := l.Handle(context.Background(), &event.ProjectCreated{
		ProjectID:   projectID,
		FamilyID:    1,
		ProjectName: "Garden shed",
		CreatedBy:   uuid.New(),
	})
	assert.NoError(err)
	assert.Equal(string(event.ProjectCreatedEvent), auditor.event)
	assert.Equal("Garden shed", auditor.payload["name"])
	assert.Equal(projectID.String(), auditor.payload["project_id"])
}
