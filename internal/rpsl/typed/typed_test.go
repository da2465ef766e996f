package typed

import (
	"testing"

	"github.com/ipgeom/ipgeom/internal/rpsl"
)

func buildObject(t *testing.T, text string) *rpsl.Object {
	t.Helper()
	objs, err := rpsl.ParseAll([]byte(text), rpsl.DefaultParserOptions())
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(objs) != 1 {
		t.Fatalf("ParseAll() returned %d objects, want 1", len(objs))
	}
	return objs[0]
}

func TestProject_Inetnum(t *testing.T) {
	obj := buildObject(t, "inetnum: 192.0.2.0 - 192.0.2.255\nnetname: TEST-NET\ncountry: ZZ\nsource: TEST\n\n")
	typedObj, err := Project(obj)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	inet, ok := typedObj.(*Inetnum)
	if !ok {
		t.Fatalf("Project() = %T, want *Inetnum", typedObj)
	}
	if inet.Netname != "TEST-NET" || inet.Country != "ZZ" {
		t.Errorf("Inetnum = %+v", inet)
	}
	if len(inet.Prefixes()) == 0 {
		t.Error("Prefixes() is empty, want decomposed range")
	}
}

func TestProject_AutNumAliases(t *testing.T) {
	obj := buildObject(t, "aut-num: AS1126\nasname: TEST-AS\nsource: TEST\n\n")
	typedObj, err := Project(obj)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	as, ok := typedObj.(*AutNum)
	if !ok {
		t.Fatalf("Project() = %T, want *AutNum", typedObj)
	}
	if as.ASName != "TEST-AS" {
		t.Errorf("ASName = %q, want %q", as.ASName, "TEST-AS")
	}
}

func TestProject_PersonChangedFallback(t *testing.T) {
	obj := buildObject(t, "person: Jane Doe\nnic-hdl: JD1-TEST\ne-mail: jane@example.com\nchanged: admin@example.com 20200102\n\n")
	typedObj, err := Project(obj)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	p, ok := typedObj.(*Person)
	if !ok {
		t.Fatalf("Project() = %T, want *Person", typedObj)
	}
	if len(p.Email) != 1 || p.Email[0] != "jane@example.com" {
		t.Errorf("Email = %v, want [jane@example.com]", p.Email)
	}
	if p.Created == nil || p.LastModified == nil {
		t.Error("Created/LastModified should both fall back to changed")
	}
}

func TestProject_OrganisationAmericanSpelling(t *testing.T) {
	obj := buildObject(t, "organization: ORG-TEST1\norgname: Test Org\n\n")
	typedObj, err := Project(obj)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	org, ok := typedObj.(*Organisation)
	if !ok {
		t.Fatalf("Project() = %T, want *Organisation", typedObj)
	}
	if org.Organisation != "ORG-TEST1" || org.OrgName != "Test Org" {
		t.Errorf("Organisation = %+v", org)
	}
}

func TestProject_UnknownFirstKeyBecomesOther(t *testing.T) {
	obj := buildObject(t, "descr: some legacy object\nremarks: x\n\n")
	typedObj, err := Project(obj)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	other, ok := typedObj.(*Other)
	if !ok {
		t.Fatalf("Project() = %T, want *Other", typedObj)
	}
	if other.Kind() != rpsl.ObjectType("descr") {
		t.Errorf("Kind() = %q, want %q", other.Kind(), "descr")
	}
}

func TestProject_MissingRequiredField(t *testing.T) {
	obj := rpsl.NewObject()
	obj.Add("inetnum", "not a valid range")
	if _, err := Project(obj); err == nil {
		t.Error("Project() error = nil, want error for malformed range")
	}
}

func TestProject_ExtraCapturesLeftoverAttributes(t *testing.T) {
	obj := buildObject(t, "mntner: MNT-TEST\ndescr: a maintainer\nremarks: keep this\n\n")
	typedObj, err := Project(obj)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	m := typedObj.(*Mntner)
	if m.Extra["remarks"] != "keep this" {
		t.Errorf("Extra[remarks] = %q, want %q", m.Extra["remarks"], "keep this")
	}
}
