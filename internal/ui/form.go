package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"inkbook/internal/model"
	"inkbook/internal/service"
)

type formStep string

const (
	stepStart formStep = "start"
	stepEnd   formStep = "end"
	stepEquip formStep = "equip"
	stepNotes formStep = "notes"
	stepSave  formStep = "save"
)

// formDraft holds the state of one create-or-edit pass through the
// booking form. It survives a blocked save so nothing typed is lost.
type formDraft struct {
	date   string
	start  string // HH:mm
	end    string // HH:mm
	equips []model.Equipment
	notes  string
}

// runForm walks the booking form for the selected date. editing is nil
// for a create; otherwise the draft starts from the existing record and
// the save replaces it in place. Entering "q" at any prompt abandons the
// form without mutating the store.
func (s *Shell) runForm(ctx context.Context, editing *model.Booking) {
	draft := formDraft{
		date:  s.selected,
		start: s.defaultStart,
		end:   s.defaultEnd,
	}
	if editing != nil {
		draft.date = editing.Date
		draft.start = editing.StartTime
		draft.end = editing.EndTime
		draft.equips = append([]model.Equipment(nil), editing.Equipments...)
		draft.notes = editing.Notes
	}

	step := stepStart
	for {
		switch step {
		case stepStart:
			line, ok := s.prompt(fmt.Sprintf("start time [%s]: ", draft.start))
			if !ok {
				return
			}
			if line != "" {
				if err := model.ValidateClock(line); err != nil {
					s.printf("  %v\n", err)
					continue
				}
				draft.start = line
			}
			step = stepEnd

		case stepEnd:
			line, ok := s.prompt(fmt.Sprintf("end time [%s]: ", draft.end))
			if !ok {
				return
			}
			if line != "" {
				if err := model.ValidateClock(line); err != nil {
					s.printf("  %v\n", err)
					continue
				}
				draft.end = line
			}
			if draft.start >= draft.end {
				// Not rejected: stored with its literal values, but worth a warning.
				s.printf("  warning: start %s is not before end %s, saving as entered\n", draft.start, draft.end)
			}
			step = stepEquip

		case stepEquip:
			s.printf("  equipment (toggle by number, comma-separated):\n")
			for i, e := range model.AllEquipment() {
				mark := " "
				if containsEquipment(draft.equips, e) {
					mark = "x"
				}
				s.printf("    [%s] %d. %s\n", mark, i+1, e)
			}
			line, ok := s.prompt("equipment> ")
			if !ok {
				return
			}
			if line != "" {
				if err := toggleEquipment(&draft, line); err != nil {
					s.printf("  %v\n", err)
					continue
				}
			}
			step = stepNotes

		case stepNotes:
			line, ok := s.prompt(fmt.Sprintf("notes [%s]: ", draft.notes))
			if !ok {
				return
			}
			if line != "" {
				draft.notes = line
			}
			step = stepSave

		case stepSave:
			form := service.FormInput{
				Date:       draft.date,
				StartTime:  draft.start,
				EndTime:    draft.end,
				Equipments: draft.equips,
				Notes:      draft.notes,
			}
			var err error
			var saved model.Booking
			if editing != nil {
				saved, err = s.svc.Update(ctx, editing.ID, form)
			} else {
				saved, err = s.svc.Create(ctx, form)
			}
			if errors.Is(err, service.ErrNoEquipment) {
				// Save blocked; the draft stays intact.
				s.printf("  %v\n", err)
				step = stepEquip
				continue
			}
			if err != nil {
				s.printf("  save failed: %v\n", err)
				return
			}
			s.printf("  saved %s %s %s-%s\n", shortID(saved.ID), saved.Date, saved.StartTime, saved.EndTime)
			return
		}
	}
}

func containsEquipment(items []model.Equipment, e model.Equipment) bool {
	for _, have := range items {
		if have == e {
			return true
		}
	}
	return false
}

// toggleEquipment flips draft membership for each referenced item.
// Accepts 1-based indexes or the identifiers themselves.
func toggleEquipment(draft *formDraft, line string) error {
	all := model.AllEquipment()
	for _, tok := range strings.Split(line, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}

		var item model.Equipment
		if n, err := strconv.Atoi(tok); err == nil {
			if n < 1 || n > len(all) {
				return fmt.Errorf("no equipment %d", n)
			}
			item = all[n-1]
		} else {
			parsed, err := model.ParseEquipment(strings.ToUpper(tok))
			if err != nil {
				return err
			}
			item = parsed
		}

		if containsEquipment(draft.equips, item) {
			next := draft.equips[:0]
			for _, have := range draft.equips {
				if have != item {
					next = append(next, have)
				}
			}
			draft.equips = next
		} else {
			draft.equips = append(draft.equips, item)
		}
	}
	return nil
}
