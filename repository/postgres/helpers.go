package postgres

// nullString maps "" to NULL so optional text columns stay unset.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
