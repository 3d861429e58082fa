package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/brandon3sican/to-system/internal/model"
)

// ExportICS one all-day VEVENT spanning departure through return
func (s *travelOrderService) ExportICS(ctx context.Context, actor *model.User, id string) ([]byte, string, error) {
	order, err := s.GetDetail(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	body := buildTravelOrderCalendar(order, s.now())
	s.logger.Debug("travel order calendar exported", zap.String("id", order.ID))
	return []byte(body), fmt.Sprintf("travel-order-%s.ics", order.TONumber), nil
}

// buildTravelOrderCalendar DTEND of an all-day event is exclusive, hence return date + 1
func buildTravelOrderCalendar(order *model.TravelOrder, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//to-system//Travel Orders//EN")

	event := cal.AddEvent(order.ID + "@to-system")
	event.SetDtStampTime(stamp.UTC())
	event.SetModifiedAt(order.UpdatedAt.UTC())
	event.SetAllDayStartAt(order.DepartureDate)
	event.SetAllDayEndAt(order.ReturnDate.AddDate(0, 0, 1))
	event.SetSummary(fmt.Sprintf("Travel Order %s: %s", order.TONumber, order.Destination))
	event.SetLocation(order.Destination)

	var desc strings.Builder
	if order.Employee != nil {
		fmt.Fprintf(&desc, "Traveler: %s\n", order.Employee.FullName())
	}
	if order.OfficialStation != nil {
		fmt.Fprintf(&desc, "Official station: %s\n", order.OfficialStation.Name)
	}
	fmt.Fprintf(&desc, "Purpose: %s\n", order.Purpose)
	fmt.Fprintf(&desc, "Arrival: %s\n", order.ArrivalDate.Format(dateLayout))
	fmt.Fprintf(&desc, "Status: %s", StatusDisplayFor(order, stamp).Label)
	event.SetDescription(desc.String())

	switch order.Status {
	case model.TravelOrderApproved:
		event.SetStatus(ics.ObjectStatusConfirmed)
	case model.TravelOrderRejected, model.TravelOrderCancelled:
		event.SetStatus(ics.ObjectStatusCancelled)
	default:
		event.SetStatus(ics.ObjectStatusTentative)
	}

	return cal.Serialize()
}
