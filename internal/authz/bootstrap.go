package authz

import (
	"fmt"

	"github.com/referral-ledger/internal/constants"
)

// OwnershipPolicies 预置的归属者动作
func OwnershipPolicies() []Policy {
	return []Policy{
		{Object: constants.AuthzObjectInvoice, Action: constants.AuthzActionUpdate},
		{Object: constants.AuthzObjectInvoice, Action: constants.AuthzActionDelete},
		{Object: constants.AuthzObjectBonusStatus, Action: constants.AuthzActionSet},
	}
}

// BootstrapOwnershipPolicies 写入缺失的预置策略，可重复执行
func (s *Service) BootstrapOwnershipPolicies() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, policy := range OwnershipPolicies() {
		action := NormalizeAction(policy.Action)
		if action == "" {
			return fmt.Errorf("builtin policy action is required")
		}
		if _, err := s.enforcer.AddPolicy(NormalizeObject(policy.Object), action); err != nil {
			return fmt.Errorf("add builtin policy failed: %w", err)
		}
	}
	return nil
}
