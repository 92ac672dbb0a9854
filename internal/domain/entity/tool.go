package entity

type ToolName string

const (
	ToolGetTodaysDate   ToolName = "get_todays_date"
	ToolInspectDatabase ToolName = "inspect_sqlite_db"
	ToolExecuteSelect   ToolName = "execute_sqlite_select"
)

func (t ToolName) String() string {
	return string(t)
}
