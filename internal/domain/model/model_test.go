package model_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/kickbase-analytics/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPosition(t *testing.T) {
	Convey("Given position codes", t, func() {
		Convey("When parsing labels and numbers", func() {
			for in, want := range map[string]model.Position{
				"GK": model.GK, "def": model.DEF, "3": model.MID, "FWD": model.FWD,
			} {
				p, err := model.ParsePosition(in)
				So(err, ShouldBeNil)
				So(p, ShouldEqual, want)
			}
		})

		Convey("When parsing an unknown code", func() {
			_, err := model.ParsePosition("5")
			So(errors.Is(err, model.ErrUnknownPosition), ShouldBeTrue)
		})

		Convey("When decoding JSON numbers and strings", func() {
			var p struct {
				A model.Position `json:"a"`
				B model.Position `json:"b"`
			}
			So(json.Unmarshal([]byte(`{"a":2,"b":"FWD"}`), &p), ShouldBeNil)
			So(p.A, ShouldEqual, model.DEF)
			So(p.B, ShouldEqual, model.FWD)

			So(json.Unmarshal([]byte(`{"a":0}`), &p), ShouldNotBeNil)
		})

		Convey("When encoding", func() {
			b, err := json.Marshal(map[string]model.Position{"p": model.MID})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"p":"MID"}`)
		})

		Convey("Positions covers exactly the four groups", func() {
			So(model.Positions(), ShouldResemble, []model.Position{model.GK, model.DEF, model.MID, model.FWD})
		})
	})
}

func TestValueHistory(t *testing.T) {
	Convey("Given a value history", t, func() {
		d0 := time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)
		h, err := model.ValueHistory(nil).Append(model.ValueHistoryPoint{Date: d0, Value: 1_000_000})
		So(err, ShouldBeNil)

		Convey("Appending the next day succeeds without touching the original", func() {
			next, err := h.Append(model.ValueHistoryPoint{Date: d0.Add(24 * time.Hour), Value: 1_100_000})
			So(err, ShouldBeNil)
			So(len(next), ShouldEqual, 2)
			So(len(h), ShouldEqual, 1)
		})

		Convey("Appending the same calendar day is rejected", func() {
			_, err := h.Append(model.ValueHistoryPoint{Date: d0.Add(2 * time.Hour), Value: 1})
			So(errors.Is(err, model.ErrValueOutOfOrder), ShouldBeTrue)
		})

		Convey("At falls back to the closest earlier day", func() {
			v, ok := h.At(d0.Add(72 * time.Hour))
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 1_000_000)

			_, ok = h.At(d0.Add(-24 * time.Hour))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestManagerPortfolioApply(t *testing.T) {
	Convey("Given a manager with a small budget", t, func() {
		m := &model.ManagerPortfolio{ManagerID: "m1", Budget: 1_000_000, Owned: []string{"p1"}, Starting: []string{"p1"}}

		Convey("Buying debits the budget and may overdraw it", func() {
			err := m.Apply(model.TransferRecord{PlayerID: "p2", BuyerID: "m1", Price: 3_000_000})
			So(err, ShouldBeNil)
			So(m.Budget, ShouldEqual, -2_000_000)
			So(m.Overdrawn(), ShouldBeTrue)
			So(m.Owned, ShouldResemble, []string{"p1", "p2"})
			So(m.Bench(), ShouldResemble, []string{"p2"})
			So(len(m.Ledger), ShouldEqual, 1)
		})

		Convey("Selling credits the budget and drops the player from the line-up", func() {
			err := m.Apply(model.TransferRecord{PlayerID: "p1", SellerID: "m1", BuyerID: "m2", Price: 500_000})
			So(err, ShouldBeNil)
			So(m.Budget, ShouldEqual, 1_500_000)
			So(m.Owned, ShouldBeEmpty)
			So(m.Starting, ShouldBeEmpty)
		})

		Convey("A transfer between other managers is rejected", func() {
			err := m.Apply(model.TransferRecord{PlayerID: "p9", BuyerID: "m2", SellerID: "m3"})
			So(errors.Is(err, model.ErrNotParty), ShouldBeTrue)
			So(m.Ledger, ShouldBeEmpty)
		})
	})
}

func TestStatusDecoding(t *testing.T) {
	Convey("Given player JSON", t, func() {
		var p model.Player
		err := json.Unmarshal([]byte(`{"id":"a","position":"GK","status":""}`), &p)
		So(err, ShouldBeNil)
		So(p.Status, ShouldEqual, model.StatusUnknown)

		err = json.Unmarshal([]byte(`{"id":"a","position":"GK","status":"retired"}`), &p)
		So(errors.Is(err, model.ErrUnknownStatus), ShouldBeTrue)
	})
}

func TestValidatePlayers(t *testing.T) {
	Convey("Given a player decoded without a position", t, func() {
		var players []model.Player
		So(json.Unmarshal([]byte(`[{"id":"a","position":"GK"},{"id":"b"}]`), &players), ShouldBeNil)

		err := model.ValidatePlayers(players)
		So(errors.Is(err, model.ErrUnknownPosition), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, `"b"`)
	})

	Convey("Given players with known positions", t, func() {
		So(model.ValidatePlayers([]model.Player{{ID: "a", Position: model.FWD}}), ShouldBeNil)
		So(model.ValidatePlayers(nil), ShouldBeNil)
	})
}
