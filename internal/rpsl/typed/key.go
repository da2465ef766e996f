package typed

import (
	"net/netip"
	"strings"

	"github.com/ipgeom/ipgeom/internal/rpsl"
)

// ObjectKey returns a canonical string identifying obj, suitable as the
// deduplication key for the persistent store's UNIQUE(obj_type, obj_key)
// constraint: the canonical prefix-set serialization for network objects,
// the nic-hdl (falling back to the object's own name) for contact
// objects, the handle/name for aut-num, organisation, and mntner, and the
// first attribute formatted as "key:value" for Other.
func ObjectKey(obj RpslObject) string {
	switch v := obj.(type) {
	case *Inetnum:
		return joinPrefixes(v.Inetnum)
	case *Inet6num:
		return joinPrefixes(v.Inet6num)
	case *AutNum:
		return v.AutNum
	case *Person:
		if v.NicHdl != "" {
			return v.NicHdl
		}
		return v.Person
	case *Role:
		if v.NicHdl != "" {
			return v.NicHdl
		}
		return v.Role
	case *Organisation:
		return v.Organisation
	case *Mntner:
		return v.Mntner
	case *Route:
		return joinPrefixes(v.Route)
	case *Route6:
		return joinPrefixes(v.Route6)
	case *Other:
		return otherKey(v.Object)
	default:
		return "other"
	}
}

func joinPrefixes(prefixes []netip.Prefix) string {
	if len(prefixes) == 0 {
		return ""
	}
	parts := make([]string, len(prefixes))
	for i, p := range prefixes {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func otherKey(obj *rpsl.Object) string {
	keys := obj.Keys()
	if len(keys) == 0 {
		return "other"
	}
	k := keys[0]
	vals := obj.Get(k)
	first := ""
	if len(vals) > 0 {
		first = vals[0]
	}
	return k + ":" + first
}
