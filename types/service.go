package types

// RegistryDocument is the type registry as served to clients.
type RegistryDocument struct {
	// Names of the definitions in declaration order.
	Names []string `cramberry:"1"`
	// JSON is the literal mapping a chain API client loads.
	JSON []byte `cramberry:"2"`
}

// Resolution is the fully expanded form of a registered name.
type Resolution struct {
	Name string `cramberry:"1"`
	// Kind is "alias", "enum" or "struct".
	Kind string `cramberry:"2"`
	// Expr is the expanded type expression, e.g. "Vec<u8>".
	Expr string `cramberry:"3"`
}

// StateReport is the governance phase as last observed.
type StateReport struct {
	State States `cramberry:"1"`
	// Round wraps at 255 as the runtime's u8 counter does.
	Round uint8 `cramberry:"2"`
}
