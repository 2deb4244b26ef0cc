package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"

	"approval-service/internal/modal"
	"approval-service/internal/workflows"
)

type uiServer struct {
	tc client.Client
	t  *template.Template
}

type uiRow struct {
	WorkflowID string
	RunID      string
	Status     string
}

type uiIndexData struct {
	Rows  []uiRow
	Error string
}

type uiDetailData struct {
	WorkflowID string
	RunID      string
	CaseFile   modal.ApprovalCase
	Audit      []modal.AuditEvent
	Error      string
}

func registerUIRoutes(r chi.Router, tc client.Client) {
	t := template.Must(template.New("base").Parse(uiTemplates))
	s := &uiServer{tc: tc, t: t}

	r.Get("/ui", s.handleIndex)
	r.Get("/ui/wf/{workflowId}", s.handleDetail)
}

// handleIndex lists recent resolution workflows (single page).
func (s *uiServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	var data uiIndexData

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	resp, err := s.tc.ListWorkflow(ctx, &workflowservice.ListWorkflowExecutionsRequest{
		Query:    `WorkflowId STARTS_WITH "` + WorkflowIDPrefix + `"`,
		PageSize: 200,
	})
	if err != nil {
		data.Error = err.Error()
		_ = s.t.ExecuteTemplate(w, "index", data)
		return
	}

	for _, ex := range resp.Executions {
		if ex.Execution == nil {
			continue
		}
		data.Rows = append(data.Rows, uiRow{
			WorkflowID: ex.Execution.WorkflowId,
			RunID:      ex.Execution.RunId,
			Status:     ex.Status.String(),
		})
	}

	_ = s.t.ExecuteTemplate(w, "index", data)
}

// handleDetail shows the case file and audit log of one workflow.
func (s *uiServer) handleDetail(w http.ResponseWriter, r *http.Request) {
	wid := chi.URLParam(r, "workflowId")
	rid := r.URL.Query().Get("runId")
	data := uiDetailData{WorkflowID: wid, RunID: rid}

	if err := s.query(r.Context(), wid, rid, workflows.CaseFileQuery, &data.CaseFile); err != nil {
		data.Error = err.Error()
		_ = s.t.ExecuteTemplate(w, "detail", data)
		return
	}
	_ = s.query(r.Context(), wid, rid, workflows.AuditLogQuery, &data.Audit)

	_ = s.t.ExecuteTemplate(w, "detail", data)
}

func (s *uiServer) query(ctx context.Context, wid, rid, queryType string, out any) error {
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	qr, err := s.tc.QueryWorkflow(cctx, wid, rid, queryType)
	if err != nil {
		return err
	}
	return qr.Get(out)
}

const uiTemplates = `
{{define "index"}}
<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>Approval Resolutions</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { border-collapse: collapse; width: 100%; margin-top: 12px; }
    th, td { border: 1px solid #ddd; padding: 8px; }
    .err { color: #b00020; }
  </style>
</head>
<body>
  <h2>Approval Resolutions</h2>
  {{if .Error}}<p class="err">{{.Error}}</p>{{end}}
  <table>
    <thead><tr><th>Workflow</th><th>Status</th></tr></thead>
    <tbody>
    {{range .Rows}}
      <tr>
        <td><a href="/ui/wf/{{.WorkflowID}}?runId={{.RunID}}">{{.WorkflowID}}</a></td>
        <td>{{.Status}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>
</body>
</html>
{{end}}

{{define "detail"}}
<!doctype html>
<html>
<head>
  <meta charset="utf-8"/>
  <title>Approval Resolution</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    .err { color: #b00020; }
    table { border-collapse: collapse; width: 100%; margin-top: 12px; }
    th, td { border: 1px solid #ddd; padding: 8px; }
  </style>
</head>
<body>
  <a href="/ui">← Back</a>
  <h2>{{.WorkflowID}}</h2>
  {{if .Error}}<p class="err">{{.Error}}</p>{{end}}

  <p><b>Owner:</b> {{.CaseFile.Owner.Hex}}<br/>
     <b>Status:</b> {{.CaseFile.Status}}<br/>
     <b>Exact approval:</b> {{.CaseFile.ExactApproval}}</p>

  <h3>Insufficient Approvals</h3>
  <table>
    <thead><tr><th>Token</th><th>Type</th><th>Identifier</th><th>Operator</th><th>Required</th><th>Approved</th></tr></thead>
    <tbody>
    {{range .CaseFile.Insufficient}}
      <tr>
        <td>{{.Token.Hex}}</td>
        <td>{{.ItemType}}</td>
        <td>{{.IdentifierOrCriteria}}</td>
        <td>{{.Operator.Hex}}</td>
        <td>{{.RequiredApprovedAmount}}</td>
        <td>{{.ApprovedAmount}}</td>
      </tr>
    {{end}}
    </tbody>
  </table>

  <h3>Audit Log</h3>
  <table>
    <thead><tr><th>Time</th><th>Kind</th><th>Message</th></tr></thead>
    <tbody>
    {{range .Audit}}
      <tr><td>{{.At}}</td><td>{{.Kind}}</td><td>{{.Message}}</td></tr>
    {{end}}
    </tbody>
  </table>
</body>
</html>
{{end}}
`
