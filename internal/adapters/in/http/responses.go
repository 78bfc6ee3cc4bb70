package http

import (
	"time"

	"pickup/internal/core/application/usecases/commands"
	"pickup/internal/core/application/usecases/queries"
	"pickup/internal/core/domain/model/order"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type statusResponse struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

type orderResponse struct {
	ID               string         `json:"id"`
	OrderCode        string         `json:"orderCode"`
	CainiaoOrderCode string         `json:"cainiaoOrderCode,omitempty"`
	MailNo           string         `json:"mailNo,omitempty"`
	Status           statusResponse `json:"status"`
	Weight           string         `json:"weight"`
	ItemType         string         `json:"itemType"`
	ItemValue        string         `json:"itemValue"`
	CourierName      string         `json:"courierName,omitempty"`
	CourierPhone     string         `json:"courierPhone,omitempty"`
	CpCode           string         `json:"cpCode,omitempty"`
	CpName           string         `json:"cpName,omitempty"`
	CancelReason     string         `json:"cancelReason,omitempty"`
	CancelTime       *time.Time     `json:"cancelTime,omitempty"`
	LastUpdateTime   *time.Time     `json:"lastUpdateTime,omitempty"`
	Version          int            `json:"version"`
}

func orderFromAggregate(o *order.Order) orderResponse {
	return orderResponse{
		ID:               o.ID().String(),
		OrderCode:        o.OrderCode(),
		CainiaoOrderCode: o.CainiaoOrderCode(),
		MailNo:           o.MailNo(),
		Status: statusResponse{
			Code:  o.Status().Code(),
			Name:  o.Status().String(),
			Label: o.Status().Label(),
		},
		Weight:         o.Weight().String(),
		ItemType:       o.ItemType(),
		ItemValue:      o.ItemValue().String(),
		CourierName:    o.CourierName(),
		CourierPhone:   o.CourierPhone(),
		CpCode:         o.CpCode(),
		CpName:         o.CpName(),
		CancelReason:   o.CancelReason(),
		CancelTime:     o.CancelTime(),
		LastUpdateTime: o.LastUpdateTime(),
		Version:        o.Version(),
	}
}

func orderFromView(v queries.OrderView) orderResponse {
	return orderResponse{
		ID:               v.ID.String(),
		OrderCode:        v.OrderCode,
		CainiaoOrderCode: v.CainiaoOrderCode,
		MailNo:           v.MailNo,
		Status: statusResponse{
			Code:  v.StatusCode,
			Name:  v.StatusName,
			Label: v.StatusLabel,
		},
		Weight:         v.Weight.String(),
		ItemType:       v.ItemType,
		ItemValue:      v.ItemValue.String(),
		CourierName:    v.CourierName,
		CourierPhone:   v.CourierPhone,
		CpCode:         v.CpCode,
		CpName:         v.CpName,
		CancelReason:   v.CancelReason,
		CancelTime:     v.CancelTime,
		LastUpdateTime: v.LastUpdateTime,
		Version:        v.Version,
	}
}

type logisticsEventResponse struct {
	MailNo       string    `json:"mailNo"`
	Status       string    `json:"status"`
	Description  string    `json:"description"`
	OccurredAt   time.Time `json:"occurredAt"`
	Province     string    `json:"province,omitempty"`
	City         string    `json:"city,omitempty"`
	District     string    `json:"district,omitempty"`
	Address      string    `json:"address,omitempty"`
	CourierName  string    `json:"courierName,omitempty"`
	CourierPhone string    `json:"courierPhone,omitempty"`
}

type orderDetailResponse struct {
	Order  orderResponse            `json:"order"`
	Events []logisticsEventResponse `json:"events"`
}

func detailFromQuery(r queries.GetOrderQueryResponse) orderDetailResponse {
	events := make([]logisticsEventResponse, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, logisticsEventResponse(e))
	}
	return orderDetailResponse{Order: orderFromView(r.Order), Events: events}
}

type syncOutcomeResponse struct {
	OrderCode        string `json:"orderCode"`
	CainiaoOrderCode string `json:"cainiaoOrderCode,omitempty"`
	Status           string `json:"status,omitempty"`
	Error            string `json:"error,omitempty"`
}

type syncReportResponse struct {
	Operation string                `json:"operation"`
	Total     int                   `json:"total"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Skipped   bool                  `json:"skipped"`
	Items     []syncOutcomeResponse `json:"items"`
	Lines     []string              `json:"lines"`
}

func reportFromCommand(r commands.SyncReport) syncReportResponse {
	items := make([]syncOutcomeResponse, 0, len(r.Items))
	for _, it := range r.Items {
		item := syncOutcomeResponse{
			OrderCode:        it.OrderCode,
			CainiaoOrderCode: it.CainiaoOrderCode,
			Status:           it.Status.Code(),
		}
		if it.Err != nil {
			item.Error = it.Err.Error()
		}
		items = append(items, item)
	}
	return syncReportResponse{
		Operation: r.Operation,
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Skipped:   r.Skipped,
		Items:     items,
		Lines:     r.Lines(),
	}
}
