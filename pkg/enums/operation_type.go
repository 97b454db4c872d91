package enums

import "fmt"

// OperationType classifies entries in the operations log.
type OperationType string

const (
	OperationInvestorCreated          OperationType = "investor_created"
	OperationInvestorUpdated          OperationType = "investor_updated"
	OperationInvestorDeleted          OperationType = "investor_deleted"
	OperationRevenueCreated           OperationType = "revenue_created"
	OperationRevenueUpdated           OperationType = "revenue_updated"
	OperationRevenueDeleted           OperationType = "revenue_deleted"
	OperationExpenseCreated           OperationType = "expense_created"
	OperationExpenseUpdated           OperationType = "expense_updated"
	OperationExpenseDeleted           OperationType = "expense_deleted"
	OperationWithdrawalCreated        OperationType = "withdrawal_created"
	OperationWithdrawalUpdated        OperationType = "withdrawal_updated"
	OperationWithdrawalDeleted        OperationType = "withdrawal_deleted"
	OperationProjectWithdrawalCreated OperationType = "project_withdrawal_created"
	OperationProjectWithdrawalUpdated OperationType = "project_withdrawal_updated"
	OperationProjectWithdrawalDeleted OperationType = "project_withdrawal_deleted"
	OperationSettingsUpdated          OperationType = "settings_updated"
	OperationUserCreated              OperationType = "user_created"
	OperationUserUpdated              OperationType = "user_updated"
	OperationUserDeleted              OperationType = "user_deleted"
	OperationDataExported             OperationType = "data_exported"
	OperationInsightsGenerated        OperationType = "insights_generated"
)

var validOperationTypes = []OperationType{
	OperationInvestorCreated,
	OperationInvestorUpdated,
	OperationInvestorDeleted,
	OperationRevenueCreated,
	OperationRevenueUpdated,
	OperationRevenueDeleted,
	OperationExpenseCreated,
	OperationExpenseUpdated,
	OperationExpenseDeleted,
	OperationWithdrawalCreated,
	OperationWithdrawalUpdated,
	OperationWithdrawalDeleted,
	OperationProjectWithdrawalCreated,
	OperationProjectWithdrawalUpdated,
	OperationProjectWithdrawalDeleted,
	OperationSettingsUpdated,
	OperationUserCreated,
	OperationUserUpdated,
	OperationUserDeleted,
	OperationDataExported,
	OperationInsightsGenerated,
}

// String implements fmt.Stringer.
func (o OperationType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OperationType.
func (o OperationType) IsValid() bool {
	for _, candidate := range validOperationTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOperationType converts raw input into an OperationType.
func ParseOperationType(value string) (OperationType, error) {
	for _, candidate := range validOperationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid operation type %q", value)
}
