package settings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestValidateAcceptsAllocationsWithinProjectShare(t *testing.T) {
	err := validate(SaveInput{
		ProjectPercentage: dec(15),
		CustomAllocations: []AllocationInput{
			{Name: "Donations", Percentage: dec(5)},
			{Name: "Fees", Percentage: dec(10)},
		},
	})
	assert.NoError(t, err)
}

func TestValidateRejectsAllocationsExceedingProjectShare(t *testing.T) {
	err := validate(SaveInput{
		ProjectPercentage: dec(15),
		CustomAllocations: []AllocationInput{
			{Name: "Donations", Percentage: dec(20)},
		},
	})

	appErr := pkgerrors.As(err)
	assert.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	assert.Contains(t, err.Error(), "20.00")
	assert.Contains(t, err.Error(), "15.00")
}

func TestValidateRejectsOutOfRangeProjectPercentage(t *testing.T) {
	assert.Error(t, validate(SaveInput{ProjectPercentage: dec(-1)}))
	assert.Error(t, validate(SaveInput{ProjectPercentage: dec(101)}))
	assert.NoError(t, validate(SaveInput{ProjectPercentage: dec(0)}))
	assert.NoError(t, validate(SaveInput{ProjectPercentage: dec(100)}))
}

func TestValidateRejectsUnnamedOrNonPositiveAllocations(t *testing.T) {
	err := validate(SaveInput{
		ProjectPercentage: dec(50),
		CustomAllocations: []AllocationInput{
			{Name: "", Percentage: dec(5)},
			{Name: "Fees", Percentage: dec(0)},
		},
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "customAllocations[0].name")
	assert.Contains(t, err.Error(), "customAllocations[1].percentage")
}
