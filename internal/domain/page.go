package domain

// Field конфигурация поля комментариев
type Field struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// MaxDepth максимальная глубина ответов; 0 отключает ветвление
	MaxDepth     int  `json:"max_depth"`
	UseVotes     bool `json:"use_votes"`
	UseDownvotes bool `json:"use_downvotes"`
	// Moderate новые комментарии попадают в статус pending
	Moderate   bool `json:"moderate"`
	SortNewest bool `json:"sort_newest"`
}

// Is сравнивает поля по идентичности
func (f *Field) Is(other *Field) bool {
	if f == nil || other == nil {
		return false
	}
	return f.ID == other.ID
}

// Page страница, хранящая коллекции комментариев по полям
type Page struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`

	fields   map[int64]*Field
	comments map[int64]CommentList
}

// NewPage создает страницу с указанными полями комментариев
func NewPage(id int64, title string, fields ...*Field) *Page {
	p := &Page{
		ID:       id,
		Title:    title,
		fields:   make(map[int64]*Field),
		comments: make(map[int64]CommentList),
	}
	for _, f := range fields {
		p.AddField(f)
	}
	return p
}

// AddField добавляет поле на страницу с пустой коллекцией
func (p *Page) AddField(f *Field) {
	if f == nil {
		return
	}
	p.fields[f.ID] = f
	if _, ok := p.comments[f.ID]; !ok {
		p.comments[f.ID] = CommentList{}
	}
}

// HasField сообщает, есть ли поле на странице
func (p *Page) HasField(f *Field) bool {
	if p == nil || f == nil {
		return false
	}
	_, ok := p.fields[f.ID]
	return ok
}

// Fields возвращает поля страницы
func (p *Page) Fields() []*Field {
	fields := make([]*Field, 0, len(p.fields))
	for _, f := range p.fields {
		fields = append(fields, f)
	}
	return fields
}

// Comments возвращает коллекцию комментариев поля; ok=false, если поля на странице нет
func (p *Page) Comments(f *Field) (CommentList, bool) {
	if p == nil || f == nil {
		return nil, false
	}
	return p.commentsByID(f.ID)
}

func (p *Page) commentsByID(fieldID int64) (CommentList, bool) {
	if p == nil {
		return nil, false
	}
	list, ok := p.comments[fieldID]
	return list, ok
}

// Append добавляет комментарии в коллекцию поля и привязывает их к странице.
// Поле добавляется на страницу, если его ещё нет.
func (p *Page) Append(f *Field, comments ...*Comment) {
	p.AddField(f)
	for _, c := range comments {
		c.FieldID = f.ID
		c.SetPage(p)
		p.comments[f.ID] = append(p.comments[f.ID], c)
	}
}
