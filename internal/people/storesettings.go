package people

type StoreSettings struct {
	URI          string            `json:"uri,omitempty" conform:"trim"`
	Token        string            `json:"token,omitempty" conform:"trim"`
	PageSize     int               `json:"page_size,omitempty" validate:"gte=0,lte=999"`
	ListQuery    string            `json:"list_query,omitempty"`
	DetailsQuery string            `json:"details_query,omitempty"`
	PhotoQuery   string            `json:"photo_query,omitempty"`
	Parameters   map[string]string `json:"parameters,omitempty"`
}

const DefaultPageSize = 100

func (s StoreSettings) pageSize() int {
	if s.PageSize > 0 {
		return s.PageSize
	}
	return DefaultPageSize
}
