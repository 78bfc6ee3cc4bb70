package cainiao

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pickup/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// TimeLayout is how the gateway formats timestamps, in China Standard Time.
const TimeLayout = "2006-01-02 15:04:05"

var chinaStandardTime = time.FixedZone("CST", 8*60*60)

// flexString accepts a JSON string, number or null.
type flexString string

// UnmarshalJSON accepts a string, a number or null.
func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(data)
	}
	return nil
}

// ptr returns nil for an absent or blank value.
func (f flexString) ptr() *string {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return nil
	}
	return &s
}

// flexBool accepts true/false or their quoted forms.
type flexBool bool

// UnmarshalJSON accepts a bool or its string form. Anything else is false.
func (f *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	b, err := strconv.ParseBool(s)
	if err != nil {
		b = false
	}
	*f = flexBool(b)
	return nil
}

func parseDecimal(field string, v flexString) (*decimal.Decimal, error) {
	s := v.ptr()
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return &d, nil
}

// parseTime accepts the gateway layout, RFC 3339 and epoch milliseconds.
func parseTime(field string, v flexString) (*time.Time, error) {
	s := v.ptr()
	if s == nil {
		return nil, nil
	}
	if t, err := time.ParseInLocation(TimeLayout, *s, chinaStandardTime); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	if ms, err := strconv.ParseInt(*s, 10, 64); err == nil {
		t := time.UnixMilli(ms).In(chinaStandardTime)
		return &t, nil
	}
	return nil, fmt.Errorf("%s: unrecognised timestamp %q", field, *s)
}

type addressPayload struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	Province string `json:"province"`
	City     string `json:"city"`
	District string `json:"district,omitempty"`
	Town     string `json:"town,omitempty"`
	Address  string `json:"address"`
}

func addressToPayload(a kernel.Address) addressPayload {
	return addressPayload{
		Name:     a.Name(),
		Phone:    a.Phone(),
		Mobile:   a.Mobile(),
		Province: a.Province(),
		City:     a.City(),
		District: a.District(),
		Town:     a.Town(),
		Address:  a.Detail(),
	}
}

type createOrderRequest struct {
	OuterOrderCode string           `json:"outerOrderCode"`
	SenderInfo     addressPayload   `json:"senderInfo"`
	ReceiverInfo   addressPayload   `json:"receiverInfo"`
	Weight         decimal.Decimal  `json:"weight"`
	ItemType       string           `json:"itemType"`
	ItemValue      *decimal.Decimal `json:"itemValue,omitempty"`
	Remark         string           `json:"remark,omitempty"`
}

type createOrderData struct {
	CainiaoOrderCode flexString `json:"cainiaoOrderCode"`
	MailNo           flexString `json:"mailNo"`
}

type cancelOrderRequest struct {
	CainiaoOrderCode string `json:"cainiaoOrderCode"`
	CancelReason     string `json:"cancelReason"`
}

type modifyOrderRequest struct {
	CainiaoOrderCode string           `json:"cainiaoOrderCode"`
	SenderInfo       *addressPayload  `json:"senderInfo,omitempty"`
	ReceiverInfo     *addressPayload  `json:"receiverInfo,omitempty"`
	Weight           *decimal.Decimal `json:"weight,omitempty"`
	ItemType         *string          `json:"itemType,omitempty"`
	ItemValue        *decimal.Decimal `json:"itemValue,omitempty"`
	Remark           *string          `json:"remark,omitempty"`
}

type queryOrderRequest struct {
	CainiaoOrderCode string `json:"cainiaoOrderCode"`
}

// orderDetailData is read from the flat data object.
type orderDetailData struct {
	Status         flexString `json:"status"`
	Weight         flexString `json:"weight"`
	ItemValue      flexString `json:"itemValue"`
	CourierName    flexString `json:"courierName"`
	CourierPhone   flexString `json:"courierPhone"`
	MailNo         flexString `json:"mailNo"`
	CpCode         flexString `json:"cpCode"`
	CpName         flexString `json:"cpName"`
	LastUpdateTime flexString `json:"lastUpdateTime"`
}

type queryLogisticsRequest struct {
	CainiaoOrderCode string `json:"cainiaoOrderCode"`
	MailNo           string `json:"mailNo"`
}

type logisticsData struct {
	LogisticsDetails []logisticsDetail `json:"logisticsDetails"`
}

type logisticsDetail struct {
	MailNo       flexString `json:"mailNo"`
	Status       flexString `json:"status"`
	Desc         flexString `json:"desc"`
	Time         flexString `json:"time"`
	Province     flexString `json:"province"`
	City         flexString `json:"city"`
	District     flexString `json:"district"`
	Address      flexString `json:"address"`
	CourierName  flexString `json:"courierName"`
	CourierPhone flexString `json:"courierPhone"`
}
