package models

import "time"

type Organization struct {
	Organization_ID   int       `json:"organizationId" goqu:"skipinsert"`
	Organization_Name string    `json:"organizationName"`
	Time_Zone         string    `json:"timeZone"`
	Is_Active         bool      `json:"isActive"`
	Datetime_Create   time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}
