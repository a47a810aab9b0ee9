package loader

import (
	"time"

	"github.com/okian/rigscore/internal/domain/benchmark"
	"github.com/okian/rigscore/internal/domain/model"
)

// catalogFile is the on-disk layout of the catalog.
type catalogFile struct {
	Version  string         `yaml:"version" validate:"required"`
	Entities []entityRecord `yaml:"entities" validate:"dive"`
}

type entityRecord struct {
	ID           string             `yaml:"id" validate:"required,printascii"`
	Name         string             `yaml:"name" validate:"required"`
	Lineup       string             `yaml:"lineup" validate:"required"`
	Series       string             `yaml:"series"`
	Processor    model.Processor    `yaml:"processor"`
	Memory       model.Memory       `yaml:"memory"`
	Display      model.Display      `yaml:"display"`
	Connectivity model.Connectivity `yaml:"connectivity"`
	Physical     model.Physical     `yaml:"physical"`
}

func (r *entityRecord) entity() model.Entity {
	return model.Entity{
		ID:           r.ID,
		Name:         r.Name,
		Lineup:       r.Lineup,
		Series:       r.Series,
		Lineage:      ParseLineage(r.ID),
		Processor:    r.Processor,
		Memory:       r.Memory,
		Display:      r.Display,
		Connectivity: r.Connectivity,
		Physical:     r.Physical,
	}
}

type benchmarkFile struct {
	Version string          `yaml:"version" validate:"required"`
	CPU     benchmark.Table `yaml:"cpu"`
	GPU     benchmark.Table `yaml:"gpu"`
}

type pricesFile struct {
	Observations []observationRecord `yaml:"observations" validate:"dive"`
	Baselines    []baselineRecord    `yaml:"baselines" validate:"dive"`
}

type observationRecord struct {
	EntityID string    `yaml:"entity_id" validate:"required"`
	Retailer string    `yaml:"retailer" validate:"required"`
	Price    float64   `yaml:"price" validate:"gte=0"`
	Date     time.Time `yaml:"date"`
	Category string    `yaml:"category" validate:"omitempty,oneof=new refurbished used"`
}

func (r *observationRecord) observation() model.PriceObservation {
	category := model.PriceCategory(r.Category)
	if category == "" {
		category = model.PriceNew
	}
	return model.PriceObservation{
		EntityID: r.EntityID,
		Retailer: r.Retailer,
		Price:    r.Price,
		Date:     r.Date,
		Category: category,
	}
}

type baselineRecord struct {
	EntityID      string    `yaml:"entity_id" validate:"required"`
	MSRP          float64   `yaml:"msrp" validate:"gte=0"`
	TypicalRetail float64   `yaml:"typical_retail" validate:"gte=0"`
	HistoricalLow float64   `yaml:"historical_low" validate:"gte=0"`
	LowDate       time.Time `yaml:"low_date"`
	LowRetailer   string    `yaml:"low_retailer"`
}

func (r *baselineRecord) baseline() model.PriceBaseline {
	return model.PriceBaseline{
		EntityID:      r.EntityID,
		MSRP:          r.MSRP,
		TypicalRetail: r.TypicalRetail,
		HistoricalLow: r.HistoricalLow,
		LowDate:       r.LowDate,
		LowRetailer:   r.LowRetailer,
	}
}

type calendarFile struct {
	Events []eventRecord `yaml:"events" validate:"dive"`
}

type eventRecord struct {
	Name         string  `yaml:"name" validate:"required"`
	Month        int     `yaml:"month" validate:"min=1,max=12"`
	Week         int     `yaml:"week" validate:"min=0,max=5"`
	DurationDays int     `yaml:"duration_days" validate:"min=0"`
	DiscountMin  float64 `yaml:"discount_min" validate:"gte=0,lte=1"`
	DiscountMax  float64 `yaml:"discount_max" validate:"gte=0,lte=1,gtefield=DiscountMin"`
}

func (r *eventRecord) event() model.SaleEvent {
	return model.SaleEvent{
		Name:         r.Name,
		Month:        time.Month(r.Month),
		Week:         r.Week,
		DurationDays: r.DurationDays,
		DiscountMin:  r.DiscountMin,
		DiscountMax:  r.DiscountMax,
	}
}
