package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/smart-parking/internal/model"
)

// Two concurrent arrivals of the same vehicle id can both pass the
// pre-insert lookup.  The unique key over the active-stay column then
// rejects the second insert and Create maps the violation to the
// sentinel the handlers translate into a conflict.
func TestCreateMapsDuplicateActiveStay(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO vehicles").
		WillReturnError(&mysql.MySQLError{
			Number:  1062,
			Message: "Duplicate entry 'CAR-1' for key 'uniq_vehicles_active'",
		})

	repo := NewStayRepo(db)
	err = repo.Create(context.Background(), &model.Stay{
		VehicleID:   "CAR-1",
		VehicleType: model.SpotTypeRegular,
		EntryTime:   time.Now().UTC(),
		SpotID:      1,
	})

	assert.ErrorIs(t, err, ErrVehicleAlreadyParked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePassesThroughOtherErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	lost := errors.New("connection lost")
	mock.ExpectExec("INSERT INTO vehicles").WillReturnError(lost)

	repo := NewStayRepo(db)
	err = repo.Create(context.Background(), &model.Stay{
		VehicleID:   "CAR-2",
		VehicleType: model.SpotTypeRegular,
		EntryTime:   time.Now().UTC(),
		SpotID:      2,
	})

	assert.ErrorIs(t, err, lost)
	assert.NotErrorIs(t, err, ErrVehicleAlreadyParked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
