package people

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/cwkr/birthday-board/internal/logger"
	"github.com/go-ldap/ldap/v3"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
)

type ldapStore struct {
	ldapURL         string
	baseDN          string
	bindUser        string
	bindPassword    string
	attributes      []string
	userIDAttr      string
	displayNameAttr string
	givenNameAttr   string
	familyNameAttr  string
	emailAttr       string
	birthdateAttr   string
	photoAttr       string
	pageSize        uint32
	settings        *StoreSettings
	log             *logrus.Entry
}

func NewLdapStore(settings *StoreSettings, log *logrus.Logger) (Store, error) {
	var ldapURL, bindUsername, bindPassword string
	if url, err := url.Parse(settings.URI); err == nil {
		if url.User != nil {
			bindUsername = url.User.Username()
			bindPassword, _ = url.User.Password()
		}
		ldapURL = fmt.Sprintf("%s://%s", url.Scheme, url.Host)
	} else {
		return nil, errors.Trace(err)
	}

	var userIDAttr = settings.Parameters["user_id_attribute"]
	if userIDAttr == "" {
		userIDAttr = "uid"
	}

	return &ldapStore{
		ldapURL:         ldapURL,
		baseDN:          settings.Parameters["base_dn"],
		bindUser:        bindUsername,
		bindPassword:    bindPassword,
		attributes:      ldapAttributes(settings.Parameters, userIDAttr),
		userIDAttr:      userIDAttr,
		displayNameAttr: settings.Parameters["display_name_attribute"],
		givenNameAttr:   settings.Parameters["given_name_attribute"],
		familyNameAttr:  settings.Parameters["family_name_attribute"],
		emailAttr:       settings.Parameters["email_attribute"],
		birthdateAttr:   settings.Parameters["birthdate_attribute"],
		photoAttr:       settings.Parameters["photo_attribute"],
		pageSize:        uint32(settings.pageSize()),
		settings:        settings,
		log:             logger.Component(log, "people", "ldap"),
	}, nil
}

// ldapAttributes lists the attributes to request for people entries. The
// photo attribute is only fetched on demand.
func ldapAttributes(parameters map[string]string, userIDAttr string) []string {
	var attributes = []string{userIDAttr}
	for name, value := range parameters {
		if strings.HasSuffix(name, "_attribute") && name != "user_id_attribute" && name != "photo_attribute" && value != "" {
			attributes = append(attributes, value)
		}
	}
	return attributes
}

func (p ldapStore) connect() (*ldap.Conn, error) {
	var conn, err = ldap.DialURL(p.ldapURL)
	if err != nil {
		p.log.Errorf("ldap connection error: %v", err)
		return nil, errors.Trace(err)
	}

	if p.bindUser != "" && p.bindPassword != "" {
		if err = conn.Bind(p.bindUser, p.bindPassword); err != nil {
			conn.Close()
			p.log.Errorf("ldap bind error: %v", err)
			return nil, errors.Trace(err)
		}
	}
	return conn, nil
}

func (p ldapStore) person(entry *ldap.Entry) Person {
	var person = Person{ID: entry.GetAttributeValue(p.userIDAttr)}
	if p.displayNameAttr != "" {
		person.DisplayName = entry.GetAttributeValue(p.displayNameAttr)
	}
	if p.givenNameAttr != "" {
		person.GivenName = entry.GetAttributeValue(p.givenNameAttr)
	}
	if p.familyNameAttr != "" {
		person.FamilyName = entry.GetAttributeValue(p.familyNameAttr)
	}
	if p.emailAttr != "" {
		person.Email = entry.GetAttributeValue(p.emailAttr)
	}
	if p.birthdateAttr != "" {
		person.Birthday = ParseBirthday(entry.GetAttributeValue(p.birthdateAttr))
	}
	return person
}

// ListPage uses the paged results control, so the whole directory arrives in
// one page and the cursor is never set.
func (p ldapStore) ListPage(ctx context.Context, cursor string) (Page, error) {
	if cursor != "" {
		return Page{}, errors.Errorf("unexpected cursor %q", cursor)
	}

	var conn, err = p.connect()
	if err != nil {
		return Page{}, err
	}
	defer conn.Close()

	// (objectClass=person)
	var filter = p.settings.ListQuery
	if filter == "" {
		filter = "(objectClass=person)"
	}
	p.log.Debugf("LDAP: %s", filter)
	var search = ldap.NewSearchRequest(
		p.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		filter,
		p.attributes,
		nil,
	)
	results, err := conn.SearchWithPaging(search, p.pageSize)
	if err != nil {
		p.log.Errorf("listing people failed: %v", err)
		return Page{}, errors.Trace(err)
	}

	var page = Page{People: make([]Person, 0, len(results.Entries))}
	for _, entry := range results.Entries {
		var person = p.person(entry)
		if person.ID == "" {
			continue
		}
		page.People = append(page.People, person)
	}
	return page, nil
}

func (p ldapStore) searchPerson(conn *ldap.Conn, userID string, attributes []string) (*ldap.Entry, error) {
	// (&(objectClass=person)(uid=%s))
	var query = p.settings.DetailsQuery
	if query == "" {
		query = "(&(objectClass=person)(" + p.userIDAttr + "=%s))"
	}
	p.log.Debugf("LDAP: %s; %%s = %s", query, userID)
	var search = ldap.NewSearchRequest(
		p.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		0,
		false,
		fmt.Sprintf(query, ldap.EscapeFilter(userID)),
		attributes,
		nil,
	)
	var results, err = conn.Search(search)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(results.Entries) != 1 {
		return nil, ErrPersonNotFound
	}
	return results.Entries[0], nil
}

func (p ldapStore) Lookup(ctx context.Context, userID string) (*Person, error) {
	var conn, err = p.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	entry, err := p.searchPerson(conn, userID, p.attributes)
	if err != nil {
		return nil, err
	}
	var person = p.person(entry)
	return &person, nil
}

func (p ldapStore) Photo(ctx context.Context, userID string) (*Photo, error) {
	if p.photoAttr == "" {
		return nil, ErrPhotoNotFound
	}

	var conn, err = p.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	entry, err := p.searchPerson(conn, userID, []string{p.photoAttr})
	if err != nil {
		return nil, err
	}
	if photo := NewPhoto(entry.GetRawAttributeValue(p.photoAttr)); photo != nil {
		return photo, nil
	}
	return nil, ErrPhotoNotFound
}

func (p ldapStore) Ping(ctx context.Context) error {
	var conn, err = p.connect()
	if err != nil {
		return err
	}
	conn.Close()
	return nil
}
