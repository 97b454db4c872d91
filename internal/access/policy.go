package access

import "github.com/fastcommand/finance-backend/pkg/enums"

// Permissions is the full set of capability flags a role can hold. The zero
// value denies everything, which is what unknown roles receive.
type Permissions struct {
	CanViewInvestors     bool `json:"canViewInvestors"`
	CanEditInvestors     bool `json:"canEditInvestors"`
	CanViewExpenses      bool `json:"canViewExpenses"`
	CanEditExpenses      bool `json:"canEditExpenses"`
	CanViewRevenues      bool `json:"canViewRevenues"`
	CanEditRevenues      bool `json:"canEditRevenues"`
	CanViewWithdrawals   bool `json:"canViewWithdrawals"`
	CanApproveWithdrawal bool `json:"canApproveWithdrawals"`
	CanViewSettings      bool `json:"canViewSettings"`
	CanEditSettings      bool `json:"canEditSettings"`
	CanViewInsights      bool `json:"canViewAIInsights"`
	CanViewAllData       bool `json:"canViewAllData"`
	CanExportData        bool `json:"canExportData"`
	CanViewOwnProfile    bool `json:"canViewOwnProfile"`
	CanViewOwnWithdrawal bool `json:"canViewOwnWithdrawals"`
}

// PermissionsFor maps a role to its capability set. Unknown roles fail closed.
func PermissionsFor(role enums.Role) Permissions {
	switch role {
	case enums.RoleAdmin:
		return Permissions{
			CanViewInvestors:     true,
			CanEditInvestors:     true,
			CanViewExpenses:      true,
			CanEditExpenses:      true,
			CanViewRevenues:      true,
			CanEditRevenues:      true,
			CanViewWithdrawals:   true,
			CanApproveWithdrawal: true,
			CanViewSettings:      true,
			CanEditSettings:      true,
			CanViewInsights:      true,
			CanViewAllData:       true,
			CanExportData:        true,
			CanViewOwnProfile:    true,
			CanViewOwnWithdrawal: true,
		}
	case enums.RoleAssistant:
		return Permissions{
			CanViewInvestors:     true,
			CanEditInvestors:     false,
			CanViewExpenses:      true,
			CanEditExpenses:      true,
			CanViewRevenues:      true,
			CanEditRevenues:      true,
			CanViewWithdrawals:   true,
			CanApproveWithdrawal: true,
			CanViewInsights:      true,
			CanViewAllData:       true,
		}
	case enums.RoleInvestor:
		return Permissions{
			CanViewExpenses:      true,
			CanViewRevenues:      true,
			CanViewWithdrawals:   true,
			CanViewInsights:      true,
			CanViewOwnProfile:    true,
			CanViewOwnWithdrawal: true,
		}
	default:
		return Permissions{}
	}
}

// WithOverrides widens a permission set with per-user grants, named by the
// same keys the permission payload uses. Unknown names are ignored, so a
// stale override can never deny anything the role already holds.
func WithOverrides(p Permissions, overrides []string) Permissions {
	for _, name := range overrides {
		switch name {
		case "canViewInvestors":
			p.CanViewInvestors = true
		case "canEditInvestors":
			p.CanEditInvestors = true
		case "canViewExpenses":
			p.CanViewExpenses = true
		case "canEditExpenses":
			p.CanEditExpenses = true
		case "canViewRevenues":
			p.CanViewRevenues = true
		case "canEditRevenues":
			p.CanEditRevenues = true
		case "canViewWithdrawals":
			p.CanViewWithdrawals = true
		case "canApproveWithdrawals":
			p.CanApproveWithdrawal = true
		case "canViewSettings":
			p.CanViewSettings = true
		case "canEditSettings":
			p.CanEditSettings = true
		case "canViewAIInsights":
			p.CanViewInsights = true
		case "canViewAllData":
			p.CanViewAllData = true
		case "canExportData":
			p.CanExportData = true
		case "canViewOwnProfile":
			p.CanViewOwnProfile = true
		case "canViewOwnWithdrawals":
			p.CanViewOwnWithdrawal = true
		}
	}
	return p
}

// ValidOverride reports whether the name is a known permission key.
func ValidOverride(name string) bool {
	zero := Permissions{}
	return WithOverrides(zero, []string{name}) != zero
}

// Check is a named predicate over a permission set, used by middleware and
// services to gate operations without re-enumerating flags.
type Check func(Permissions) bool

var (
	ViewInvestors      Check = func(p Permissions) bool { return p.CanViewInvestors }
	EditInvestors      Check = func(p Permissions) bool { return p.CanEditInvestors }
	ViewExpenses       Check = func(p Permissions) bool { return p.CanViewExpenses }
	EditExpenses       Check = func(p Permissions) bool { return p.CanEditExpenses }
	ViewRevenues       Check = func(p Permissions) bool { return p.CanViewRevenues }
	EditRevenues       Check = func(p Permissions) bool { return p.CanEditRevenues }
	ViewWithdrawals    Check = func(p Permissions) bool { return p.CanViewWithdrawals }
	ApproveWithdrawals Check = func(p Permissions) bool { return p.CanApproveWithdrawal }
	ViewSettings       Check = func(p Permissions) bool { return p.CanViewSettings }
	EditSettings       Check = func(p Permissions) bool { return p.CanEditSettings }
	ViewInsights       Check = func(p Permissions) bool { return p.CanViewInsights }
	ViewAllData        Check = func(p Permissions) bool { return p.CanViewAllData }
	ExportData         Check = func(p Permissions) bool { return p.CanExportData }
)

// Allowed reports whether the role passes the provided check.
func Allowed(role enums.Role, check Check) bool {
	if check == nil {
		return false
	}
	return check(PermissionsFor(role))
}
