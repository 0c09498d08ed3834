package common

import (
	"testing"

	"pgme/src/db"
	"pgme/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validPropertyBody() *types.CreatePropertyRequestBody {
	return &types.CreatePropertyRequestBody{
		Name:       "Sunrise PG",
		City:       "Pune",
		Rent:       8500,
		OwnerID:    uuid.NewString(),
		OwnerName:  "A Provider",
		OwnerPhone: "9876543210",
	}
}

func TestCreatePropertyValidation(t *testing.T) {
	var validationErr *types.ValidationError

	body := validPropertyBody()
	body.Name = " "
	_, err := CreateProperty(body)
	assert.ErrorAs(t, err, &validationErr)

	body = validPropertyBody()
	body.Rent = 0
	_, err = CreateProperty(body)
	assert.ErrorAs(t, err, &validationErr)

	body = validPropertyBody()
	body.OwnerID = "not-a-uuid"
	_, err = CreateProperty(body)
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreatePropertyStartsPendingApproval(t *testing.T) {
	_, mock := db.GetMockDB()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "properties"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	property, err := CreateProperty(validPropertyBody())
	assert.NoError(t, err)
	assert.Equal(t, types.APPROVAL_PENDING, property.ApprovalStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func propertyRow(id uuid.UUID, status types.ApprovalStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "city", "rent", "owner_name", "owner_phone", "approval_status"}).
		AddRow(id.String(), "Sunrise PG", "Pune", 8500.0, "A Provider", "9876543210", string(status))
}

func TestApprovePropertyOnlyFromPending(t *testing.T) {
	var transitionErr *types.InvalidTransitionError

	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(propertyRow(id, types.APPROVAL_REJECTED))

	_, err := ApproveProperty(id, "admin@example.com", "looks good")
	assert.ErrorAs(t, err, &transitionErr)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(propertyRow(id, types.APPROVAL_PENDING))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "properties"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	property, err := ApproveProperty(id, "admin@example.com", "looks good")
	assert.NoError(t, err)
	assert.Equal(t, types.APPROVAL_APPROVED, property.ApprovalStatus)
	assert.Equal(t, "admin@example.com", property.ApprovedBy)
	assert.NotNil(t, property.ApprovedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectPropertyOnlyFromPending(t *testing.T) {
	var transitionErr *types.InvalidTransitionError

	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(propertyRow(id, types.APPROVAL_APPROVED))

	_, err := RejectProperty(id, "photos missing")
	assert.ErrorAs(t, err, &transitionErr)

	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
		WillReturnRows(propertyRow(id, types.APPROVAL_PENDING))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "properties"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	property, err := RejectProperty(id, "photos missing")
	assert.NoError(t, err)
	assert.Equal(t, types.APPROVAL_REJECTED, property.ApprovalStatus)
	assert.Equal(t, "photos missing", property.RejectionReason)
	assert.NoError(t, mock.ExpectationsWereMet())
}
