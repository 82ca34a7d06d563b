package orggraph

import (
	"slices"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	departmentstore "trip-approval-backend/lib/dicts/department/store"
	projectstore "trip-approval-backend/lib/dicts/project/store"
	dbmodels "trip-approval-backend/models/db"
)

type DepartmentNode struct {
	ID         string
	ManagerIDs []string
	IsActive   bool
}

// PrimaryManagerID основной руководитель, пусто если слот не заполнен
func (d DepartmentNode) PrimaryManagerID() string {
	if len(d.ManagerIDs) == 0 {
		return ""
	}
	return d.ManagerIDs[0]
}

type ProjectNode struct {
	ID           string
	DepartmentID string
	ManagerIDs   []string
	IsActive     bool
	ExpiresAt    *time.Time
}

func (p ProjectNode) PrimaryManagerID() string {
	if len(p.ManagerIDs) == 0 {
		return ""
	}
	return p.ManagerIDs[0]
}

// Snapshot срез связей подразделений и проектов с руководителями на момент чтения
type Snapshot struct {
	Departments map[string]DepartmentNode
	Projects    map[string]ProjectNode
}

func NewSnapshot(departments []dbmodels.Department, projects []dbmodels.Project) Snapshot {
	s := Snapshot{
		Departments: make(map[string]DepartmentNode, len(departments)),
		Projects:    make(map[string]ProjectNode, len(projects)),
	}
	for _, d := range departments {
		s.Departments[d.ID] = DepartmentNode{
			ID:         d.ID,
			ManagerIDs: d.ManagerIDs(),
			IsActive:   d.IsActive,
		}
	}
	for _, p := range projects {
		s.Projects[p.ID] = ProjectNode{
			ID:           p.ID,
			DepartmentID: p.DepartmentID,
			ManagerIDs:   p.ManagerIDs(),
			IsActive:     p.IsActive,
			ExpiresAt:    p.ExpiresAt,
		}
	}
	return s
}

func (s Snapshot) Department(id string) (DepartmentNode, bool) {
	node, ok := s.Departments[id]
	return node, ok
}

func (s Snapshot) Project(id string) (ProjectNode, bool) {
	node, ok := s.Projects[id]
	return node, ok
}

func (s Snapshot) IsDepartmentManager(departmentID, userID string) bool {
	node, ok := s.Departments[departmentID]
	return ok && userID != "" && slices.Contains(node.ManagerIDs, userID)
}

func (s Snapshot) IsProjectManager(projectID, userID string) bool {
	node, ok := s.Projects[projectID]
	return ok && userID != "" && slices.Contains(node.ManagerIDs, userID)
}

// ManagedBy подразделения и проекты, где пользователь занимает любой слот руководителя
func (s Snapshot) ManagedBy(userID string) (departmentIDs, projectIDs []string) {
	departmentIDs = []string{}
	projectIDs = []string{}
	for id, node := range s.Departments {
		if slices.Contains(node.ManagerIDs, userID) {
			departmentIDs = append(departmentIDs, id)
		}
	}
	for id, node := range s.Projects {
		if slices.Contains(node.ManagerIDs, userID) {
			projectIDs = append(projectIDs, id)
		}
	}
	slices.Sort(departmentIDs)
	slices.Sort(projectIDs)
	return departmentIDs, projectIDs
}

type Reader interface {
	Load() (Snapshot, error)
}

func NewReader(tx *gorm.DB) Reader {
	return reader{
		departmentStore: departmentstore.NewInstance(tx),
		projectStore:    projectstore.NewInstance(tx),
	}
}

type reader struct {
	departmentStore departmentstore.Provider
	projectStore    projectstore.Provider
}

func (r reader) Load() (Snapshot, error) {
	departments, err := r.departmentStore.List()
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "ошибка чтения подразделений")
	}
	projects, err := r.projectStore.List("")
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "ошибка чтения проектов")
	}
	return NewSnapshot(departments, projects), nil
}
