package rbac

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"trip-approval-backend/models"
)

type Provider interface {
	GetRuleFunc(method, path string) (RuleFunc, bool)
	RegisterRule(capabilities []models.Capability, swaggerPattern string, handler RuleFunc) error
	GetCapabilities(role models.UserRole) []models.Capability
}

var Instance Provider

func NewHandler() {
	i := &impl{
		rules: map[HTTPMethod][]routeRule{},
	}
	Instance = i
	i.initRules()
}

type impl struct {
	rules map[HTTPMethod][]routeRule
}

// GetRuleFunc при нескольких совпадениях берется правило с наименьшим числом параметров
func (i *impl) GetRuleFunc(method, path string) (RuleFunc, bool) {
	segments := splitPath(path)
	rules := i.rules[HTTPMethod(strings.ToUpper(method))]
	var found *routeRule
	for idx := range rules {
		if !rules[idx].match(segments) {
			continue
		}
		if found == nil || rules[idx].params < found.params {
			found = &rules[idx]
		}
	}
	if found == nil {
		return nil, false
	}
	return found.handler, true
}

// RegisterRule без handler доступ дается при наличии любого из перечисленных прав
func (i *impl) RegisterRule(capabilities []models.Capability, swaggerPattern string, handler RuleFunc) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}
	if handler == nil {
		if len(capabilities) == 0 {
			return errors.Errorf("не заданы права для маршрута %s", swaggerPattern)
		}
		handler = AllowByCapabilityFunc(capabilities)
	}
	rule := routeRule{segments: splitPath(path), handler: handler}
	for _, s := range rule.segments {
		if isParam(s) {
			rule.params++
		}
	}
	i.rules[method] = append(i.rules[method], rule)
	return nil
}

// GetCapabilities список прав роли для фронта
func (i *impl) GetCapabilities(role models.UserRole) []models.Capability {
	return slices.Clone(roleCapabilities[role])
}

func AllowFunc() RuleFunc {
	return func(view PermissionView) bool {
		return true
	}
}

func AllowByCapabilityFunc(capabilities []models.Capability) RuleFunc {
	return func(view PermissionView) bool {
		return view.CanAny(capabilities...)
	}
}

// parseSwaggerPattern строка в формате аннотации @Router: "/api/v1/trip_request/{id}/paid [put]"
func parseSwaggerPattern(pattern string) (path string, method HTTPMethod, err error) {
	pattern = strings.TrimSpace(pattern)
	open := strings.LastIndex(pattern, "[")
	if open == -1 || !strings.HasSuffix(pattern, "]") {
		return "", "", errors.Errorf("не указан метод в шаблоне маршрута (%v)", pattern)
	}
	method = HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[open+1 : len(pattern)-1])))
	if method == "" {
		return "", "", errors.Errorf("не указан метод в шаблоне маршрута (%v)", pattern)
	}
	return "/" + strings.Join(splitPath(pattern[:open]), "/"), method, nil
}

// splitPath пустые сегменты отбрасываются, поэтому "//" и завершающий "/" не влияют на сравнение
func splitPath(path string) []string {
	parts := strings.Split(strings.TrimSpace(path), "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
