package client

// Range is the reporting window of revenue figures.
type Range string

const (
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
	RangeYear    Range = "year"
)

// Totals are platform-wide counters.
type Totals struct {
	TotalUsers        int64   `json:"totalUsers"`
	TotalTeachers     int64   `json:"totalTeachers"`
	TotalStudents     int64   `json:"totalStudents"`
	TotalTransactions int64   `json:"totalTransactions"`
	TotalCoinsSold    int64   `json:"totalCoinsSold"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

// RevenuePoint is one bucket of the revenue chart.
type RevenuePoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Coins   int64   `json:"coins"`
}

// RevenueStats summarises revenue over a range against the previous range.
type RevenueStats struct {
	Range            Range   `json:"range"`
	Revenue          float64 `json:"revenue"`
	PreviousRevenue  float64 `json:"previousRevenue"`
	GrowthPercentage float64 `json:"growthPercentage"`
	Transactions     int64   `json:"transactions"`
	AverageOrder     float64 `json:"averageOrderValue"`
}
