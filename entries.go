package fieldmap

type (
	//Entry represents stringified field
	Entry struct {
		Key   string
		Value string
	}

	//Entries represents stringified fields in declaration order, keys are not deduplicated
	Entries []Entry
)

//Lookup returns the first value for supplied key
func (e Entries) Lookup(key string) (string, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

//Keys returns keys in declaration order
func (e Entries) Keys() []string {
	var result = make([]string, 0, len(e))
	for _, entry := range e {
		result = append(result, entry.Key)
	}
	return result
}

//Map returns entries as a map, later duplicates win
func (e Entries) Map() map[string]string {
	var result = make(map[string]string, len(e))
	for _, entry := range e {
		result[entry.Key] = entry.Value
	}
	return result
}
