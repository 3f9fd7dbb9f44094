package people

type Person struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name,omitempty" conform:"trim"`
	GivenName   string   `json:"given_name,omitempty" conform:"trim"`
	FamilyName  string   `json:"family_name,omitempty" conform:"trim"`
	Email       string   `json:"email,omitempty" conform:"trim"`
	Birthday    Birthday `json:"birthday,omitempty"`
	Photo       *Photo   `json:"-"`
}

// Name returns the display name, falling back to given and family name.
func (p Person) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	switch {
	case p.GivenName != "" && p.FamilyName != "":
		return p.GivenName + " " + p.FamilyName
	case p.GivenName != "":
		return p.GivenName
	case p.FamilyName != "":
		return p.FamilyName
	}
	return p.ID
}

// Merge overlays the non-empty fields of details onto p. The ID of p is kept.
func (p Person) Merge(details Person) Person {
	if details.DisplayName != "" {
		p.DisplayName = details.DisplayName
	}
	if details.GivenName != "" {
		p.GivenName = details.GivenName
	}
	if details.FamilyName != "" {
		p.FamilyName = details.FamilyName
	}
	if details.Email != "" {
		p.Email = details.Email
	}
	if details.Birthday.IsSet() {
		p.Birthday = details.Birthday
	}
	if details.Photo != nil {
		p.Photo = details.Photo
	}
	return p
}
