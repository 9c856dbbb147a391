package generator

// fileData is the root of the resources template.
type fileData struct {
	Package        string
	Types          []*typeData
	HypermediaVars []string
}

// typeData describes one spec and its wrapper type.
type typeData struct {
	Name             string
	ResourceName     string
	Identifier       string
	Attributes       []string
	ValidStatusCodes []int
	Methods          []string
	PaginationKey    string
	Hypermedia       bool
	BaseURL          string

	TypeName     string
	SpecVar      string
	Constructor  string
	SubResources []subResourceData
	Related      []string
	Getters      []getterData
	Relations    []relationData
}

type subResourceData struct {
	Attr    string
	SpecVar string
}

// getterData is one attribute getter. SubType is set for sub-resource attributes.
type getterData struct {
	Attr       string
	Method     string
	SubType    string
	ListMethod string
}

type relationData struct {
	Name    string
	Method  string
	SpecVar string
}
