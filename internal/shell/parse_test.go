package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"", Command{Kind: KindEmpty}},
		{"   ", Command{Kind: KindEmpty}},
		{"new", Command{Kind: KindNew}},
		{"HELP", Command{Kind: KindHelp}},
		{"q", Command{Kind: KindQuit}},
		{"exit", Command{Kind: KindQuit}},
		{"quit", Command{Kind: KindQuit}},
		{"3, stage, design", Command{Kind: KindAction, Selector: "3", Action: ActionStage, Stage: "design"}},
		{" 3 ,STAGE,  design , waiting on CT ", Command{Kind: KindAction, Selector: "3", Action: ActionStage, Stage: "design", Message: "waiting on CT"}},
		{"1,log,called Dr. Soto, no answer", Command{Kind: KindAction, Selector: "1", Action: ActionLog, Message: "called Dr. Soto, no answer"}},
		{"P113-ABC-PK1, open", Command{Kind: KindAction, Selector: "P113-ABC-PK1", Action: ActionOpen}},
		{"2,LogOpen", Command{Kind: KindAction, Selector: "2", Action: ActionLogOpen}},
		{"2,edit", Command{Kind: KindAction, Selector: "2", Action: ActionEdit}},
		{"2,dicom", Command{Kind: KindAction, Selector: "2", Action: ActionDICOM}},
		{"2,slicer", Command{Kind: KindAction, Selector: "2", Action: ActionSlicer}},
		{"2,blender", Command{Kind: KindAction, Selector: "2", Action: ActionBlender}},
		{"2,import", Command{Kind: KindAction, Selector: "2", Action: ActionImport}},
		{"2,importbg", Command{Kind: KindAction, Selector: "2", Action: ActionImportBG}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, line := range []string{
		"frobnicate",
		"1,nonsense",
		"1,",
		", stage, x",
		"1, stage",
		"1, stage,  ",
		"1, log",
		"1, log,   ",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := Parse(line)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
