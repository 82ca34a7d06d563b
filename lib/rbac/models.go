package rbac

// RuleFunc проверка доступа к маршруту по вычисленным правам
type RuleFunc func(view PermissionView) bool

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
	PATCH  HTTPMethod = "PATCH"
)

// routeRule маршрут, разбитый на сегменты; сегмент {param} совпадает с любым значением
type routeRule struct {
	segments []string
	params   int
	handler  RuleFunc
}

func (r routeRule) match(segments []string) bool {
	if len(segments) != len(r.segments) {
		return false
	}
	for idx, s := range r.segments {
		if !isParam(s) && s != segments[idx] {
			return false
		}
	}
	return true
}

func isParam(segment string) bool {
	return len(segment) > 2 && segment[0] == '{' && segment[len(segment)-1] == '}'
}
