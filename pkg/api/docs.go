// Package api serves the read-only StateIndexor HTTP API
// @title StateIndexor API
// @version 1.0
// @description Read-only REST API over the committed StateIndexor state, indexing status and undo log
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/StateIndexor
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @basePath /api/v1
// @schemes http https
package api
