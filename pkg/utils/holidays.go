package util

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dayflow/models"
)

type holidayAPIData struct {
	Date              string `json:"holiday_date"`
	Name              string `json:"holiday_name"`
	IsNationalHoliday bool   `json:"is_national_holiday"`
}

func fetchHolidays(baseURL, year string) ([]holidayAPIData, error) {
	resp, err := http.Get(baseURL + "?year=" + year)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rawHolidays []holidayAPIData
	if err := json.Unmarshal(body, &rawHolidays); err != nil {
		return nil, err
	}
	return rawHolidays, nil
}

// GetHolidayMap fetches the national holidays for a year keyed by date, for
// filtering generated schedule occurrences.
func GetHolidayMap(baseURL, year string) (map[string]bool, error) {
	rawHolidays, err := fetchHolidays(baseURL, year)
	if err != nil {
		return nil, err
	}

	holidayMap := make(map[string]bool)
	for _, raw := range rawHolidays {
		if raw.IsNationalHoliday {
			holidayMap[raw.Date] = true
		}
	}
	return holidayMap, nil
}

// GetHolidays fetches the national holidays for a year as a slice for display.
func GetHolidays(baseURL, year string) ([]models.Holiday, error) {
	rawHolidays, err := fetchHolidays(baseURL, year)
	if err != nil {
		return nil, err
	}

	var holidays []models.Holiday
	for _, raw := range rawHolidays {
		if raw.IsNationalHoliday {
			holidays = append(holidays, models.Holiday{Date: raw.Date, Name: raw.Name})
		}
	}
	return holidays, nil
}
