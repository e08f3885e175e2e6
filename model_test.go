package fieldmap

import (
	"fmt"
	"time"
)

type Loyalty int

const (
	Level1 Loyalty = iota
	Level2
	Level3
)

func (l Loyalty) String() string {
	switch l {
	case Level1:
		return "Level1"
	case Level2:
		return "Level2"
	case Level3:
		return "Level3"
	}
	return fmt.Sprintf("Loyalty(%d)", int(l))
}

type Account struct {
	AccountId     int
	AccountNumber string
}

type Preference struct {
	Hobby string
}

type Child struct {
	FirstName string
	Age       int
}

type Customer struct {
	Name       string
	Age        int
	Preference Preference
	Account    *Account
	Loyalty    Loyalty
	Mobile     string
	Children   []Child
	Since      time.Time `format:"dateFormat=YYYY-MM-DD"`
}

type CustomerResult struct {
	Desc        string
	Age         int
	Leisure     string
	Account     *Account
	YearsWithUs int
	Kids        []*Child
	Joined      time.Time
	Score       float64
	secret      string
}

func yearsToLoyalty(yearsWithUs int) Loyalty {
	if yearsWithUs > 10 {
		return Level1
	}
	if yearsWithUs > 5 {
		return Level2
	}
	return Level3
}

func renderAccount(account *Account) string {
	return fmt.Sprintf("AccountId:%v, AccountNumber:%v", account.AccountId, account.AccountNumber)
}

func newCustomerResult() *CustomerResult {
	return &CustomerResult{
		Desc:        "Joe",
		Leisure:     "GO",
		Age:         73,
		YearsWithUs: 8,
		Account: &Account{
			AccountId:     123,
			AccountNumber: "978654321",
		},
	}
}

//newCustomerDefinition declares CustomerResult to Customer mappings
func newCustomerDefinition(opts ...Option) (*Definition[CustomerResult, Customer], error) {
	def := New[CustomerResult, Customer](append([]Option{WithTag("Customer")}, opts...)...)
	for _, pair := range [][2]string{
		{"z.Desc", "z.Name"},
		{"z.Age", "z.Age"},
		{"z.Leisure", "z.Preference.Hobby"},
	} {
		source, err := def.From(pair[0])
		if err != nil {
			return nil, err
		}
		if _, err = source.To(pair[1]); err != nil {
			return nil, err
		}
	}
	source, err := def.From("z.YearsWithUs")
	if err != nil {
		return nil, err
	}
	transformed, err := source.Then(yearsToLoyalty)
	if err != nil {
		return nil, err
	}
	if _, err = transformed.To("z.Loyalty"); err != nil {
		return nil, err
	}
	if source, err = def.From("z.Account"); err != nil {
		return nil, err
	}
	complete, err := source.To("z.Account")
	if err != nil {
		return nil, err
	}
	if _, err = complete.Stringify(renderAccount); err != nil {
		return nil, err
	}
	return def, nil
}
