package domain

import (
	"fmt"
	"strings"
	"time"
)

// CommentStatus статус модерации комментария
type CommentStatus int

const (
	StatusSpam     CommentStatus = -2
	StatusPending  CommentStatus = 0
	StatusApproved CommentStatus = 1
	StatusFeatured CommentStatus = 2
	// StatusDelete порог удаления: всё, что ниже, считается живым комментарием
	StatusDelete CommentStatus = 999
)

var statusNames = map[CommentStatus]string{
	StatusSpam:     "spam",
	StatusPending:  "pending",
	StatusApproved: "approved",
	StatusFeatured: "featured",
	StatusDelete:   "delete",
}

func (s CommentStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus разбирает строковое имя статуса
func ParseStatus(name string) (CommentStatus, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, name)
}

// Comment представляет комментарий, прикреплённый к полю страницы
type Comment struct {
	ID        int64         `json:"id"`
	PageID    int64         `json:"page_id"`
	FieldID   int64         `json:"field_id"`
	ParentID  int64         `json:"parent_id"`
	Status    CommentStatus `json:"status"`
	Text      string        `json:"text"`
	Cite      string        `json:"cite"`
	Email     string        `json:"email,omitempty"`
	Code      string        `json:"code,omitempty"`
	Upvotes   int           `json:"upvotes"`
	Downvotes int           `json:"downvotes"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	page *Page
}

// IsPersisted сообщает, сохранён ли комментарий в хранилище
func (c *Comment) IsPersisted() bool {
	return c.ID > 0
}

// Page возвращает страницу комментария или nil, если комментарий ещё не привязан
func (c *Comment) Page() *Page {
	return c.page
}

// SetPage привязывает комментарий к странице без добавления в её коллекцию.
// Используется для черновиков, которые проверяются перед сохранением.
func (c *Comment) SetPage(p *Page) {
	c.page = p
	if p != nil {
		c.PageID = p.ID
	}
}

// siblings возвращает коллекцию комментариев того же поля на той же странице
func (c *Comment) siblings() CommentList {
	if c.page == nil {
		return nil
	}
	list, _ := c.page.commentsByID(c.FieldID)
	return list
}

// Depth возвращает количество родителей до корня (корень = 0).
// Обход ограничен размером коллекции, поэтому повреждённые циклы не зацикливают его.
func (c *Comment) Depth() int {
	list := c.siblings()
	depth := 0
	parentID := c.ParentID
	for parentID != 0 && depth <= list.Len() {
		parent := list.Get(parentID)
		if parent == nil {
			break
		}
		depth++
		parentID = parent.ParentID
	}
	return depth
}

// Children возвращает прямых потомков комментария
func (c *Comment) Children() CommentList {
	if !c.IsPersisted() {
		return nil
	}
	return c.siblings().Children(c.ID)
}

// HasChild проверяет, является ли комментарий id потомком c.
// При transitive=true проверяются все уровни вложенности.
func (c *Comment) HasChild(id int64, transitive bool) bool {
	if !c.IsPersisted() || id == 0 {
		return false
	}
	list := c.siblings()
	if !transitive {
		return list.Children(c.ID).Has(id)
	}

	visited := map[int64]bool{c.ID: true}
	queue := []int64{c.ID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range list.Children(current) {
			if child.ID == id {
				return true
			}
			if !visited[child.ID] {
				visited[child.ID] = true
				queue = append(queue, child.ID)
			}
		}
	}
	return false
}

// CommentList упорядоченная коллекция комментариев одного поля страницы
type CommentList []*Comment

// Len возвращает размер коллекции
func (l CommentList) Len() int {
	return len(l)
}

// Get ищет комментарий по ID линейным проходом
func (l CommentList) Get(id int64) *Comment {
	for _, c := range l {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Has сообщает, есть ли комментарий с таким ID
func (l CommentList) Has(id int64) bool {
	return l.Get(id) != nil
}

// Children возвращает комментарии с указанным родителем в исходном порядке
func (l CommentList) Children(parentID int64) CommentList {
	var children CommentList
	for _, c := range l {
		if c.ParentID == parentID && c.ID != parentID {
			children = append(children, c)
		}
	}
	return children
}

// IsPublished сообщает, виден ли комментарий посетителям
func (s CommentStatus) IsPublished() bool {
	return s >= StatusApproved && s < StatusDelete
}

// Published оставляет опубликованные комментарии, у которых опубликованы все предки.
// Ответы на скрытый комментарий скрываются вместе с ним.
func (l CommentList) Published() CommentList {
	published := make(CommentList, 0, len(l))
	for _, c := range l {
		if l.publishedChain(c) {
			published = append(published, c)
		}
	}
	return published
}

func (l CommentList) publishedChain(c *Comment) bool {
	for steps := 0; c != nil && steps <= len(l); steps++ {
		if !c.Status.IsPublished() {
			return false
		}
		if c.ParentID == 0 || c.ParentID == c.ID {
			return true
		}
		c = l.Get(c.ParentID)
	}
	// родитель отсутствует в коллекции или цепочка зациклена
	return c == nil
}

// CommentTree представляет комментарий со всеми вложенными комментариями
type CommentTree struct {
	Comment  Comment       `json:"comment"`
	Children []CommentTree `json:"children,omitempty"`
}

// Tree строит дерево из коллекции. Комментарии, чей родитель отсутствует
// в коллекции, становятся корнями.
func (l CommentList) Tree() []CommentTree {
	trees := make([]CommentTree, 0)
	for _, c := range l {
		if c.ParentID == 0 || c.ParentID == c.ID || !l.Has(c.ParentID) {
			trees = append(trees, l.buildTree(c, map[int64]bool{}))
		}
	}
	return trees
}

// buildTree строит дерево комментариев рекурсивно
func (l CommentList) buildTree(comment *Comment, seen map[int64]bool) CommentTree {
	seen[comment.ID] = true
	tree := CommentTree{
		Comment:  *comment,
		Children: make([]CommentTree, 0),
	}

	for _, c := range l.Children(comment.ID) {
		if seen[c.ID] {
			continue
		}
		tree.Children = append(tree.Children, l.buildTree(c, seen))
	}

	return tree
}

// CommentFilter содержит параметры фильтрации и пагинации
type CommentFilter struct {
	PageID   int64
	ParentID *int64
	Status   *CommentStatus
	Search   string
	Page     int
	PageSize int
	SortBy   string // "created_at", "updated_at", "upvotes"
	Order    string // "asc", "desc"
}

// Normalize подставляет значения по умолчанию
func (f CommentFilter) Normalize(sortNewest bool) CommentFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 50
	}
	switch f.SortBy {
	case "created_at", "updated_at", "upvotes":
	default:
		f.SortBy = "created_at"
	}
	if f.Order != "asc" && f.Order != "desc" {
		f.Order = "asc"
		if sortNewest {
			f.Order = "desc"
		}
	}
	return f
}

// CommentUpdate описывает изменяемые свойства комментария; nil означает «не менять»
type CommentUpdate struct {
	Text     *string
	Cite     *string
	Email    *string
	Status   *CommentStatus
	ParentID *int64
}

// IsEmpty сообщает, что обновлять нечего
func (u CommentUpdate) IsEmpty() bool {
	return u.Text == nil && u.Cite == nil && u.Email == nil && u.Status == nil && u.ParentID == nil
}

// Apply переносит заданные свойства на комментарий
func (u CommentUpdate) Apply(c *Comment) {
	if u.Text != nil {
		c.Text = *u.Text
	}
	if u.Cite != nil {
		c.Cite = *u.Cite
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.ParentID != nil {
		c.ParentID = *u.ParentID
	}
}
