package rbac

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"trip-approval-backend/db"
	adminreqstore "trip-approval-backend/lib/admin-req/store"
	"trip-approval-backend/lib/apperrors"
	orggraph "trip-approval-backend/lib/org-graph"
	tripreqstore "trip-approval-backend/lib/trip-req/store"
	usersstore "trip-approval-backend/lib/users/store"
	"trip-approval-backend/models"
)

// ResolverProvider вычисление прав по текущему состоянию БД, без кэширования
type ResolverProvider interface {
	Resolve(user models.CurrentUser) (PermissionView, error)
	ResolveVisibleRequestIDs(user models.CurrentUser) (map[string]struct{}, error)
}

var Resolver ResolverProvider

func NewResolver() {
	Resolver = NewResolverWithTx(db.DB)
}

func NewResolverWithTx(tx *gorm.DB) ResolverProvider {
	return resolverImpl{
		usersStore:    usersstore.NewInstance(tx),
		graphReader:   orggraph.NewReader(tx),
		tripStore:     tripreqstore.NewInstance(tx),
		adminReqStore: adminreqstore.NewInstance(tx),
	}
}

type resolverImpl struct {
	usersStore    usersstore.Provider
	graphReader   orggraph.Reader
	tripStore     tripreqstore.Provider
	adminReqStore adminreqstore.Provider
}

func (r resolverImpl) Resolve(user models.CurrentUser) (PermissionView, error) {
	rec, err := r.usersStore.GetByID(user.ID)
	if err != nil {
		return PermissionView{}, errors.Wrap(err, "ошибка получения пользователя")
	}
	if rec == nil {
		return PermissionView{}, apperrors.Forbidden("пользователь не найден")
	}
	if user.DeclaredRole != "" && user.DeclaredRole != rec.Role {
		log.
			WithField("user_id", user.ID).
			WithField("token_role", user.DeclaredRole).
			WithField("db_role", rec.Role).
			Warn("роль в токене не совпадает с ролью в БД, используется роль из БД")
	}
	graph, err := r.graphReader.Load()
	if err != nil {
		return PermissionView{}, err
	}
	return Resolve(*rec, user.ActiveRole, graph)
}

func (r resolverImpl) ResolveVisibleRequestIDs(user models.CurrentUser) (map[string]struct{}, error) {
	view, err := r.Resolve(user)
	if err != nil {
		return nil, err
	}
	filter := view.VisibilityFilter()
	tripIDs, err := r.tripStore.ListIDs(filter)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка командировок")
	}
	adminIDs, err := r.adminReqStore.ListIDs(filter)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения списка административных заявок")
	}
	result := make(map[string]struct{}, len(tripIDs)+len(adminIDs))
	for _, id := range tripIDs {
		result[id] = struct{}{}
	}
	for _, id := range adminIDs {
		result[id] = struct{}{}
	}
	return result, nil
}
