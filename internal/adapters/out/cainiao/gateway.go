package cainiao

import (
	"context"
	"encoding/json"
	"fmt"

	"pickup/internal/core/domain/model/apiconfig"
	"pickup/internal/core/domain/model/order"
	"pickup/internal/core/ports"
)

// Message types understood by the gateway.
const (
	MsgCreateOrder    = "CNPICKUP_ORDER_CREATE"
	MsgCancelOrder    = "CNPICKUP_ORDER_CANCEL"
	MsgModifyOrder    = "CNPICKUP_ORDER_MODIFY"
	MsgQueryOrder     = "CNPICKUP_ORDER_QUERY"
	MsgQueryLogistics = "CNPICKUP_LOGISTICS_QUERY"
)

var _ ports.PickupGateway = (*Gateway)(nil)

// Gateway maps domain operations onto gateway messages.
type Gateway struct {
	client *Client
}

// NewGateway creates a PickupGateway backed by client.
func NewGateway(client *Client) *Gateway {
	return &Gateway{client: client}
}

// CreateOrder submits o and returns the remote order code, plus the mail
// number when the gateway already assigned one. A reply without an order
// code is a CodeBadResponse error.
func (g *Gateway) CreateOrder(ctx context.Context, cfg *apiconfig.Config, o *order.Order) (ports.CreatedOrder, error) {
	req := createOrderRequest{
		OuterOrderCode: o.OrderCode(),
		SenderInfo:     addressToPayload(o.Sender()),
		ReceiverInfo:   addressToPayload(o.Receiver()),
		Weight:         o.Weight(),
		ItemType:       o.ItemType(),
		Remark:         o.Remark(),
	}
	if !o.ItemValue().IsZero() {
		v := o.ItemValue()
		req.ItemValue = &v
	}

	var data createOrderData
	if err := g.call(ctx, cfg, MsgCreateOrder, req, &data); err != nil {
		return ports.CreatedOrder{}, err
	}

	code := data.CainiaoOrderCode.ptr()
	if code == nil {
		return ports.CreatedOrder{}, &APIError{
			MsgType: MsgCreateOrder,
			Code:    CodeBadResponse,
			Message: "response carries no cainiaoOrderCode",
		}
	}

	created := ports.CreatedOrder{CainiaoOrderCode: *code}
	if mailNo := data.MailNo.ptr(); mailNo != nil {
		created.MailNo = *mailNo
	}
	return created, nil
}

// CancelOrder cancels the remote order with reason.
func (g *Gateway) CancelOrder(ctx context.Context, cfg *apiconfig.Config, cainiaoOrderCode, reason string) error {
	return g.call(ctx, cfg, MsgCancelOrder, cancelOrderRequest{
		CainiaoOrderCode: cainiaoOrderCode,
		CancelReason:     reason,
	}, nil)
}

// ModifyOrder sends only the fields set in changes.
func (g *Gateway) ModifyOrder(
	ctx context.Context,
	cfg *apiconfig.Config,
	cainiaoOrderCode string,
	changes order.OrderChanges,
) error {
	req := modifyOrderRequest{
		CainiaoOrderCode: cainiaoOrderCode,
		Weight:           changes.Weight,
		ItemType:         changes.ItemType,
		ItemValue:        changes.ItemValue,
		Remark:           changes.Remark,
	}
	if changes.Sender != nil {
		p := addressToPayload(*changes.Sender)
		req.SenderInfo = &p
	}
	if changes.Receiver != nil {
		p := addressToPayload(*changes.Receiver)
		req.ReceiverInfo = &p
	}
	return g.call(ctx, cfg, MsgModifyOrder, req, nil)
}

// QueryOrderDetail reads the remote order detail from the flat data object.
// Fields the gateway leaves out stay nil in the result so the order keeps
// its local values. Malformed numbers or times are CodeBadResponse errors.
func (g *Gateway) QueryOrderDetail(
	ctx context.Context,
	cfg *apiconfig.Config,
	cainiaoOrderCode string,
) (order.RemoteDetail, error) {
	var data orderDetailData
	if err := g.call(ctx, cfg, MsgQueryOrder, queryOrderRequest{CainiaoOrderCode: cainiaoOrderCode}, &data); err != nil {
		return order.RemoteDetail{}, err
	}

	detail := order.RemoteDetail{
		StatusCode:   data.Status.ptr(),
		CourierName:  data.CourierName.ptr(),
		CourierPhone: data.CourierPhone.ptr(),
		MailNo:       data.MailNo.ptr(),
		CpCode:       data.CpCode.ptr(),
		CpName:       data.CpName.ptr(),
	}

	var err error
	if detail.Weight, err = parseDecimal("weight", data.Weight); err != nil {
		return order.RemoteDetail{}, badResponse(MsgQueryOrder, err)
	}
	if detail.ItemValue, err = parseDecimal("itemValue", data.ItemValue); err != nil {
		return order.RemoteDetail{}, badResponse(MsgQueryOrder, err)
	}
	if detail.LastUpdateTime, err = parseTime("lastUpdateTime", data.LastUpdateTime); err != nil {
		return order.RemoteDetail{}, badResponse(MsgQueryOrder, err)
	}
	return detail, nil
}

// QueryLogistics returns the full tracking trail for mailNo in gateway order.
// An event without a time is a CodeBadResponse error; an event without a
// mail number inherits mailNo.
func (g *Gateway) QueryLogistics(
	ctx context.Context,
	cfg *apiconfig.Config,
	cainiaoOrderCode, mailNo string,
) ([]order.LogisticsEvent, error) {
	var data logisticsData
	req := queryLogisticsRequest{CainiaoOrderCode: cainiaoOrderCode, MailNo: mailNo}
	if err := g.call(ctx, cfg, MsgQueryLogistics, req, &data); err != nil {
		return nil, err
	}

	events := make([]order.LogisticsEvent, 0, len(data.LogisticsDetails))
	for i, d := range data.LogisticsDetails {
		occurredAt, err := parseTime("time", d.Time)
		if err != nil {
			return nil, badResponse(MsgQueryLogistics, fmt.Errorf("logisticsDetails[%d]: %w", i, err))
		}
		if occurredAt == nil {
			return nil, badResponse(MsgQueryLogistics, fmt.Errorf("logisticsDetails[%d]: time is missing", i))
		}

		eventMailNo := mailNo
		if m := d.MailNo.ptr(); m != nil {
			eventMailNo = *m
		}

		event, err := order.NewLogisticsEvent(order.LogisticsEventParams{
			MailNo:       eventMailNo,
			Status:       string(d.Status),
			Description:  string(d.Desc),
			OccurredAt:   *occurredAt,
			Province:     string(d.Province),
			City:         string(d.City),
			District:     string(d.District),
			Address:      string(d.Address),
			CourierName:  string(d.CourierName),
			CourierPhone: string(d.CourierPhone),
		})
		if err != nil {
			return nil, badResponse(MsgQueryLogistics, fmt.Errorf("logisticsDetails[%d]: %w", i, err))
		}
		events = append(events, event)
	}
	return events, nil
}

// call decodes data into out when out is non-nil.
func (g *Gateway) call(ctx context.Context, cfg *apiconfig.Config, msgType string, req, out any) error {
	resp, err := g.client.Call(ctx, cfg, msgType, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return badResponse(msgType, err)
	}
	return nil
}

func badResponse(msgType string, err error) *APIError {
	return &APIError{MsgType: msgType, Code: CodeBadResponse, Message: "unexpected response data", Cause: err}
}
