package authz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/referral-ledger/internal/constants"

	"github.com/casbin/casbin/v3"
	"github.com/casbin/casbin/v3/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const casbinTableName = "casbin_rule"

// 只有记录归属者本人可以执行已登记的动作，无管理员越权
const ownershipModel = `
[request_definition]
r = sub, owner, obj, act

[policy_definition]
p = obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub != "" && r.sub == r.owner && r.obj == p.obj && r.act == p.act
`

// Policy 可被归属者执行的动作
type Policy struct {
	Object string `json:"object"`
	Action string `json:"action"`
}

// Service Casbin 归属授权服务
type Service struct {
	enforcer *casbin.SyncedEnforcer
}

// NewService 创建授权服务，策略持久化在 casbin_rule 表
func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, fmt.Errorf("authz db is nil")
	}

	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", casbinTableName)
	if err != nil {
		return nil, fmt.Errorf("create authz adapter failed: %w", err)
	}

	m, err := model.NewModelFromString(ownershipModel)
	if err != nil {
		return nil, fmt.Errorf("load authz model failed: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("init authz enforcer failed: %w", err)
	}
	enforcer.EnableAutoSave(true)

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("load authz policy failed: %w", err)
	}
	return &Service{enforcer: enforcer}, nil
}

// Enforce 判断 actor 能否对 owner 名下的 object 执行 action
func (s *Service) Enforce(actor, owner, object, action string) (bool, error) {
	if s == nil || s.enforcer == nil {
		return false, fmt.Errorf("authz service unavailable")
	}
	return s.enforcer.Enforce(
		strings.TrimSpace(actor),
		strings.TrimSpace(owner),
		NormalizeObject(object),
		NormalizeAction(action),
	)
}

// CanMutateInvoice 发票修改/删除授权
func (s *Service) CanMutateInvoice(actor, owner, action string) (bool, error) {
	return s.Enforce(actor, owner, constants.AuthzObjectInvoice, action)
}

// CanSetBonusStatus 季度发放标记授权，归属者为 referrer
func (s *Service) CanSetBonusStatus(actor, referrer string) (bool, error) {
	return s.Enforce(actor, referrer, constants.AuthzObjectBonusStatus, constants.AuthzActionSet)
}

// Policies 当前生效的策略
func (s *Service) Policies() ([]Policy, error) {
	if s == nil || s.enforcer == nil {
		return nil, fmt.Errorf("authz service unavailable")
	}
	rules, err := s.enforcer.GetFilteredPolicy(0)
	if err != nil {
		return nil, fmt.Errorf("list policies failed: %w", err)
	}
	policies := make([]Policy, 0, len(rules))
	for _, rule := range rules {
		if len(rule) < 2 {
			continue
		}
		policies = append(policies, Policy{Object: rule[0], Action: rule[1]})
	}
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Object == policies[j].Object {
			return policies[i].Action < policies[j].Action
		}
		return policies[i].Object < policies[j].Object
	})
	return policies, nil
}

// NormalizeObject 归一化对象名
func NormalizeObject(object string) string {
	return strings.ToLower(strings.TrimSpace(object))
}

// NormalizeAction 归一化动作名
func NormalizeAction(action string) string {
	return strings.ToLower(strings.TrimSpace(action))
}
