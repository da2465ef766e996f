package typed

import (
	"net/netip"
	"strings"
	"time"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
	"github.com/ipgeom/ipgeom/internal/rpsl"
)

// RpslObject unifies the nine known RPSL entity types and the Other
// fallback behind a single tagged-union-style interface.
type RpslObject interface {
	Kind() rpsl.ObjectType
	Prefixes() []netip.Prefix
}

// Inetnum describes an RPSL inetnum object: an IPv4 address range with
// policy and contact metadata.
type Inetnum struct {
	Inetnum      []netip.Prefix
	Netname      string
	Descr        string
	Country      string
	AdminC       []string
	TechC        []string
	Status       string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Inetnum) Kind() rpsl.ObjectType      { return rpsl.Inetnum }
func (o *Inetnum) Prefixes() []netip.Prefix   { return o.Inetnum }

// Inet6num is the IPv6 counterpart of Inetnum.
type Inet6num struct {
	Inet6num     []netip.Prefix
	Netname      string
	Descr        string
	Country      string
	AdminC       []string
	TechC        []string
	Status       string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Inet6num) Kind() rpsl.ObjectType    { return rpsl.Inet6num }
func (o *Inet6num) Prefixes() []netip.Prefix { return o.Inet6num }

// AutNum describes an RPSL aut-num (autonomous system) object.
type AutNum struct {
	AutNum       string
	ASName       string
	Descr        string
	AdminC       []string
	TechC        []string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *AutNum) Kind() rpsl.ObjectType    { return rpsl.AutNum }
func (o *AutNum) Prefixes() []netip.Prefix { return nil }

// Person describes an RPSL person (contact) object.
type Person struct {
	Person       string
	NicHdl       string
	Address      []string
	Phone        []string
	Email        []string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Person) Kind() rpsl.ObjectType    { return rpsl.Person }
func (o *Person) Prefixes() []netip.Prefix { return nil }

// Role describes an RPSL role (shared contact) object.
type Role struct {
	Role         string
	NicHdl       string
	Address      []string
	Phone        []string
	Email        []string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Role) Kind() rpsl.ObjectType    { return rpsl.Role }
func (o *Role) Prefixes() []netip.Prefix { return nil }

// Organisation describes an RPSL organisation object.
type Organisation struct {
	Organisation string
	OrgName      string
	Descr        string
	Address      []string
	Phone        []string
	Email        []string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Organisation) Kind() rpsl.ObjectType    { return rpsl.Organisation }
func (o *Organisation) Prefixes() []netip.Prefix { return nil }

// Mntner describes an RPSL mntner (maintainer) object.
type Mntner struct {
	Mntner       string
	Descr        string
	AdminC       []string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Mntner) Kind() rpsl.ObjectType    { return rpsl.Mntner }
func (o *Mntner) Prefixes() []netip.Prefix { return nil }

// Route describes an RPSL route object binding an IPv4 prefix to an origin AS.
type Route struct {
	Route        []netip.Prefix
	Origin       string
	Descr        string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Route) Kind() rpsl.ObjectType    { return rpsl.Route }
func (o *Route) Prefixes() []netip.Prefix { return o.Route }

// Route6 is the IPv6 counterpart of Route.
type Route6 struct {
	Route6       []netip.Prefix
	Origin       string
	Descr        string
	MntBy        []string
	Created      *time.Time
	LastModified *time.Time
	Source       string
	Extra        map[string]string
}

func (o *Route6) Kind() rpsl.ObjectType    { return rpsl.Route6 }
func (o *Route6) Prefixes() []netip.Prefix { return o.Route6 }

// Other wraps an attribute object whose type did not match any of the
// nine known RPSL entity types. The object is retained verbatim.
type Other struct {
	Object *rpsl.Object
}

func (o *Other) Kind() rpsl.ObjectType    { return o.Object.Type }
func (o *Other) Prefixes() []netip.Prefix { return nil }

// Project dispatches an untyped attribute object into its typed variant
// by obj.Type, the type derived from the object's first key: inetnum,
// inet6num, aut-num, person, role, organisation/organization, mntner,
// route, route6, else Other.
func Project(obj *rpsl.Object) (RpslObject, error) {
	switch obj.Type {
	case rpsl.Inetnum:
		return projectInetnum(obj)
	case rpsl.Inet6num:
		return projectInet6num(obj)
	case rpsl.AutNum:
		return projectAutNum(obj)
	case rpsl.Person:
		return projectPerson(obj)
	case rpsl.Role:
		return projectRole(obj)
	case rpsl.Organisation:
		return projectOrganisation(obj)
	case rpsl.Mntner:
		return projectMntner(obj)
	case rpsl.Route:
		return projectRoute(obj)
	case rpsl.Route6:
		return projectRoute6(obj)
	default:
		return &Other{Object: obj}, nil
	}
}

func hasKey(obj *rpsl.Object, key string) bool {
	return len(obj.Get(key)) > 0
}

func single(obj *rpsl.Object, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := obj.First(k); ok {
			return v, true
		}
	}
	return "", false
}

func multi(obj *rpsl.Object, keys ...string) []string {
	for _, k := range keys {
		if v := obj.Get(k); len(v) > 0 {
			return v
		}
	}
	return nil
}

func text(obj *rpsl.Object, keys ...string) (string, bool) {
	for _, k := range keys {
		if v := obj.Get(k); len(v) > 0 {
			return strings.Join(v, "\n"), true
		}
	}
	return "", false
}

func datetime(obj *rpsl.Object, keys ...string) *time.Time {
	if v, ok := single(obj, keys...); ok {
		if t, err := ParseFlexible(v); err == nil {
			return &t
		}
	}
	return nil
}

func consumedSet(keys ...string) map[string]bool {
	out := make(map[string]bool, len(keys))
	for _, k := range keys {
		out[k] = true
	}
	return out
}

func extra(obj *rpsl.Object, consumed map[string]bool) map[string]string {
	out := map[string]string{}
	for _, k := range obj.Keys() {
		if consumed[k] {
			continue
		}
		out[k] = strings.Join(obj.Get(k), "\n")
	}
	return out
}

func parseRangeValue(v string, isV6 bool) ([]netip.Prefix, error) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "/") {
		p, err := netip.ParsePrefix(v)
		if err != nil {
			return nil, err
		}
		return []netip.Prefix{p}, nil
	}
	parts := strings.SplitN(v, "-", 2)
	if len(parts) != 2 {
		return nil, &ipgeomerrors.TypedError{Message: "not a cidr or inclusive range"}
	}
	first, err := netip.ParseAddr(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	last, err := netip.ParseAddr(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}
	if isV6 {
		return DecomposeIPv6(first, last)
	}
	return DecomposeIPv4(first, last)
}

func projectInetnum(obj *rpsl.Object) (*Inetnum, error) {
	raw, ok := single(obj, "inetnum")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Inetnum), Field: "inetnum", Message: "missing required field"}
	}
	prefixes, err := parseRangeValue(raw, false)
	if err != nil {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Inetnum), Field: "inetnum", Message: "invalid ip range", Err: err}
	}
	netname, _ := single(obj, "netname")
	descr, _ := text(obj, "descr")
	country, _ := single(obj, "country")
	status, _ := single(obj, "status")
	source, _ := single(obj, "source")
	consumed := consumedSet("inetnum", "netname", "descr", "country", "admin-c", "tech-c", "status", "mnt-by", "source", "created", "last-modified", "changed")
	return &Inetnum{
		Inetnum: prefixes, Netname: netname, Descr: descr, Country: country,
		AdminC: multi(obj, "admin-c"), TechC: multi(obj, "tech-c"), Status: status,
		MntBy: multi(obj, "mnt-by"), Created: datetime(obj, "created"),
		LastModified: datetime(obj, "last-modified", "changed"), Source: source,
		Extra: extra(obj, consumed),
	}, nil
}

func projectInet6num(obj *rpsl.Object) (*Inet6num, error) {
	raw, ok := single(obj, "inet6num")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Inet6num), Field: "inet6num", Message: "missing required field"}
	}
	prefixes, err := parseRangeValue(raw, true)
	if err != nil {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Inet6num), Field: "inet6num", Message: "invalid ip range", Err: err}
	}
	netname, _ := single(obj, "netname")
	descr, _ := text(obj, "descr")
	country, _ := single(obj, "country")
	status, _ := single(obj, "status")
	source, _ := single(obj, "source")
	consumed := consumedSet("inet6num", "netname", "descr", "country", "admin-c", "tech-c", "status", "mnt-by", "source", "created", "last-modified", "changed")
	return &Inet6num{
		Inet6num: prefixes, Netname: netname, Descr: descr, Country: country,
		AdminC: multi(obj, "admin-c"), TechC: multi(obj, "tech-c"), Status: status,
		MntBy: multi(obj, "mnt-by"), Created: datetime(obj, "created"),
		LastModified: datetime(obj, "last-modified", "changed"), Source: source,
		Extra: extra(obj, consumed),
	}, nil
}

func projectAutNum(obj *rpsl.Object) (*AutNum, error) {
	asNum, ok := single(obj, "aut-num")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.AutNum), Field: "aut-num", Message: "missing required field"}
	}
	asName, _ := single(obj, "as-name", "asname")
	descr, _ := text(obj, "descr")
	source, _ := single(obj, "source")
	consumed := consumedSet("aut-num", "as-name", "asname", "descr", "admin-c", "tech-c", "mnt-by", "source", "created", "last-modified", "changed")
	return &AutNum{
		AutNum: asNum, ASName: asName, Descr: descr,
		AdminC: multi(obj, "admin-c"), TechC: multi(obj, "tech-c"), MntBy: multi(obj, "mnt-by"),
		Created: datetime(obj, "created"), LastModified: datetime(obj, "last-modified", "changed"),
		Source: source, Extra: extra(obj, consumed),
	}, nil
}

func projectPerson(obj *rpsl.Object) (*Person, error) {
	name, ok := single(obj, "person")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Person), Field: "person", Message: "missing required field"}
	}
	nicHdl, _ := single(obj, "nic-hdl")
	source, _ := single(obj, "source")
	consumed := consumedSet("person", "nic-hdl", "address", "phone", "email", "e-mail", "mnt-by", "source", "created", "last-modified", "changed")
	return &Person{
		Person: name, NicHdl: nicHdl, Address: multi(obj, "address"), Phone: multi(obj, "phone"),
		Email: multi(obj, "email", "e-mail"), MntBy: multi(obj, "mnt-by"),
		Created: datetime(obj, "created", "changed"), LastModified: datetime(obj, "last-modified", "changed"),
		Source: source, Extra: extra(obj, consumed),
	}, nil
}

func projectRole(obj *rpsl.Object) (*Role, error) {
	name, ok := single(obj, "role")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Role), Field: "role", Message: "missing required field"}
	}
	nicHdl, _ := single(obj, "nic-hdl")
	source, _ := single(obj, "source")
	consumed := consumedSet("role", "nic-hdl", "address", "phone", "email", "e-mail", "mnt-by", "source", "created", "last-modified", "changed")
	return &Role{
		Role: name, NicHdl: nicHdl, Address: multi(obj, "address"), Phone: multi(obj, "phone"),
		Email: multi(obj, "email", "e-mail"), MntBy: multi(obj, "mnt-by"),
		Created: datetime(obj, "created", "changed"), LastModified: datetime(obj, "last-modified", "changed"),
		Source: source, Extra: extra(obj, consumed),
	}, nil
}

func projectOrganisation(obj *rpsl.Object) (*Organisation, error) {
	handle, ok := single(obj, "organisation", "organization")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Organisation), Field: "organisation", Message: "missing required field"}
	}
	orgName, _ := single(obj, "org-name", "orgname")
	descr, _ := text(obj, "descr")
	source, _ := single(obj, "source")
	consumed := consumedSet("organisation", "organization", "org-name", "orgname", "descr", "address", "phone", "email", "e-mail", "mnt-by", "source", "created", "last-modified", "changed")
	return &Organisation{
		Organisation: handle, OrgName: orgName, Descr: descr,
		Address: multi(obj, "address"), Phone: multi(obj, "phone"), Email: multi(obj, "email", "e-mail"),
		MntBy: multi(obj, "mnt-by"), Created: datetime(obj, "created", "changed"),
		LastModified: datetime(obj, "last-modified", "changed"), Source: source, Extra: extra(obj, consumed),
	}, nil
}

func projectMntner(obj *rpsl.Object) (*Mntner, error) {
	handle, ok := single(obj, "mntner")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Mntner), Field: "mntner", Message: "missing required field"}
	}
	descr, _ := text(obj, "descr")
	source, _ := single(obj, "source")
	consumed := consumedSet("mntner", "descr", "admin-c", "mnt-by", "source", "created", "last-modified", "changed")
	return &Mntner{
		Mntner: handle, Descr: descr, AdminC: multi(obj, "admin-c"), MntBy: multi(obj, "mnt-by"),
		Created: datetime(obj, "created", "changed"), LastModified: datetime(obj, "last-modified", "changed"),
		Source: source, Extra: extra(obj, consumed),
	}, nil
}

func projectRoute(obj *rpsl.Object) (*Route, error) {
	raw, ok := single(obj, "route")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Route), Field: "route", Message: "missing required field"}
	}
	prefixes, err := parseRangeValue(raw, false)
	if err != nil {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Route), Field: "route", Message: "invalid ip range", Err: err}
	}
	origin, _ := single(obj, "origin")
	descr, _ := text(obj, "descr")
	source, _ := single(obj, "source")
	consumed := consumedSet("route", "origin", "descr", "mnt-by", "source", "created", "last-modified", "changed")
	return &Route{
		Route: prefixes, Origin: origin, Descr: descr, MntBy: multi(obj, "mnt-by"),
		Created: datetime(obj, "created", "changed"), LastModified: datetime(obj, "last-modified", "changed"),
		Source: source, Extra: extra(obj, consumed),
	}, nil
}

func projectRoute6(obj *rpsl.Object) (*Route6, error) {
	raw, ok := single(obj, "route6")
	if !ok {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Route6), Field: "route6", Message: "missing required field"}
	}
	prefixes, err := parseRangeValue(raw, true)
	if err != nil {
		return nil, &ipgeomerrors.TypedError{ObjectType: string(rpsl.Route6), Field: "route6", Message: "invalid ip range", Err: err}
	}
	origin, _ := single(obj, "origin")
	descr, _ := text(obj, "descr")
	source, _ := single(obj, "source")
	consumed := consumedSet("route6", "origin", "descr", "mnt-by", "source", "created", "last-modified", "changed")
	return &Route6{
		Route6: prefixes, Origin: origin, Descr: descr, MntBy: multi(obj, "mnt-by"),
		Created: datetime(obj, "created", "changed"), LastModified: datetime(obj, "last-modified", "changed"),
		Source: source, Extra: extra(obj, consumed),
	}, nil
}
