package models

// PromoCode хранит только границы применимости; логика применения отсутствует
type PromoCode struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Code            string `gorm:"size:100;not null" json:"code"`
	DiscountPercent Amount `gorm:"type:numeric(5,2);not null" json:"discount_percent"`
	MinPrice        Amount `gorm:"type:numeric(10,2);not null" json:"min_price"`
	MaxPrice        Amount `gorm:"type:numeric(10,2);not null" json:"max_price"`
}

func (PromoCode) TableName() string { return "promo_codes" }

func (p PromoCode) String() string { return p.Code }

func (p *PromoCode) Validate() error {
	v := newValidator("promo_code")
	v.text("code", p.Code, 100)
	v.percent("discount_percent", p.DiscountPercent)
	v.decimal("min_price", p.MinPrice, 10, 2)
	v.decimal("max_price", p.MaxPrice, 10, 2)
	if p.MinPrice.GreaterThan(p.MaxPrice.Decimal) {
		v.fail("min_price", "must not exceed max_price")
	}
	return v.done()
}
