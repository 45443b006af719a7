// ABOUTME: Project record as published in the site's project list
// ABOUTME: Flattens a project into the single-string passage form used for retrieval
package models

import (
	"fmt"
	"strings"
)

// Project is one entry of the project list
type Project struct {
	Title string   `json:"title" yaml:"title"`
	Desc  string   `json:"desc" yaml:"desc"`
	Tech  []string `json:"tech" yaml:"tech"`
}

// Passage renders the project as "<title>: <desc>. Tech: <tech, ...>"
func (p Project) Passage() string {
	return fmt.Sprintf("%s: %s. Tech: %s", p.Title, p.Desc, strings.Join(p.Tech, ", "))
}
