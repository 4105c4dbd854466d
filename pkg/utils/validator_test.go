package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayflow/models"
)

func TestValidateRegisterPayload(t *testing.T) {
	valid := models.EmployeeRegisterPayload{
		EmployeeID: "EMP100",
		Email:      "riley@dayflow.com",
		Password:   "Password123",
		FirstName:  "Riley",
	}
	assert.Nil(t, ValidateStruct(valid))

	t.Run("missing uppercase in password", func(t *testing.T) {
		p := valid
		p.Password = "password123"

		errs := ValidateStruct(p)
		require.Len(t, errs, 1)
		assert.Equal(t, "hasuppercase", errs[0].Tag)
	})

	t.Run("bad email", func(t *testing.T) {
		p := valid
		p.Email = "not-an-email"

		errs := ValidateStruct(p)
		require.Len(t, errs, 1)
		assert.Equal(t, "email", errs[0].Tag)
	})

	t.Run("short password", func(t *testing.T) {
		p := valid
		p.Password = "Abc1"

		errs := ValidateStruct(p)
		require.Len(t, errs, 1)
		assert.Equal(t, "min", errs[0].Tag)
	})
}

func TestValidateLeaveRequestPayload(t *testing.T) {
	valid := models.LeaveRequestCreatePayload{
		LeaveTypeID: "64a1f0c2e4b0a1b2c3d4e5f6",
		StartDate:   "2026-03-10",
		EndDate:     "2026-03-12",
	}
	assert.Nil(t, ValidateStruct(valid))

	t.Run("end before start", func(t *testing.T) {
		p := valid
		p.EndDate = "2026-03-09"

		errs := ValidateStruct(p)
		require.Len(t, errs, 1)
		assert.Equal(t, "gtefield", errs[0].Tag)
		assert.Equal(t, "EndDate", errs[0].Field)
	})

	t.Run("same-day request allowed", func(t *testing.T) {
		p := valid
		p.EndDate = p.StartDate
		assert.Nil(t, ValidateStruct(p))
	})

	t.Run("bad date format", func(t *testing.T) {
		p := valid
		p.StartDate = "10/03/2026"

		errs := ValidateStruct(p)
		require.NotEmpty(t, errs)
		assert.Equal(t, "datetime", errs[0].Tag)
	})
}

func TestValidateReviewPayload(t *testing.T) {
	assert.Nil(t, ValidateStruct(models.LeaveReviewPayload{Status: "approved"}))
	assert.Nil(t, ValidateStruct(models.LeaveReviewPayload{Status: "rejected"}))

	errs := ValidateStruct(models.LeaveReviewPayload{Status: "pending"})
	require.Len(t, errs, 1)
	assert.Equal(t, "oneof", errs[0].Tag)
}

func TestValidatePayrollRunPayload(t *testing.T) {
	valid := models.PayrollRunPayload{
		EmployeeID: "64a1f0c2e4b0a1b2c3d4e5f6",
		Month:      3,
		Year:       2026,
	}
	assert.Nil(t, ValidateStruct(valid))

	t.Run("month out of range", func(t *testing.T) {
		p := valid
		p.Month = 13

		errs := ValidateStruct(p)
		require.Len(t, errs, 1)
		assert.Equal(t, "max", errs[0].Tag)
	})
}

func TestGenerateBase64Key(t *testing.T) {
	key, err := GenerateBase64Key(32)
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	_, err = GenerateBase64Key(16)
	assert.Error(t, err)
}
