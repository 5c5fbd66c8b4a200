package models

// EditorSettings holds app-level editor preferences. These are persisted
// independently of the overlay document and only affect controller behaviour,
// never the overlay content itself.
type EditorSettings struct {
	ShowGrid           bool `json:"showgrid"`
	GridSize           int  `json:"gridsize"`
	GridOpacity        int  `json:"gridopacity"`
	SnapBackground     bool `json:"snapbackground"`
	AddListPageSize    int  `json:"addlistpagesize"`
	AddFieldOpacity    int  `json:"addfieldopacity"`
	SelectFieldOpacity int  `json:"selectfieldopacity"`
	MouseWheelZoom     bool `json:"mousewheelzoom"`
	BackgroundOpacity  int  `json:"backgroundopacity"`
	Debug              bool `json:"debug"`
}

// NewEditorSettings returns the settings used before the operator has
// saved any of their own.
func NewEditorSettings() EditorSettings {
	return EditorSettings{
		ShowGrid:           false,
		GridSize:           10,
		GridOpacity:        50,
		SnapBackground:     false,
		AddListPageSize:    10,
		AddFieldOpacity:    30,
		SelectFieldOpacity: 30,
		MouseWheelZoom:     false,
		BackgroundOpacity:  100,
		Debug:              false,
	}
}
