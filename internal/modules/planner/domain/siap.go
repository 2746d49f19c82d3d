package domain

// Login page.
var (
	LoginField    = ID("txtLogin")
	PasswordField = ID("txtSenha")
	CaptchaLabel  = ID("lblCaptcha")
	CaptchaField  = ID("txtCaptcha")
	LogonButton   = ID("btnLogon")
)

// Menu and listing.
var (
	MenuTrigger     = Class("menu_trigger")
	PlanningLink    = XPath("//a[contains(text(), 'Planejamento')]")
	DiaryLink       = XPath("//a[contains(text(), 'Diário do Professor')]")
	Body            = Tag("body")
	ListButton      = ID("cphFuncionalidade_btnListar")
	ClassRows       = XPath("//tr[contains(@onclick, 'Select')]")
	RowCells        = Tag("td")
	EditButton      = ID("cphFuncionalidade_btnEditar")
	SaveButton      = ID("cphFuncionalidade_btnAlterar")
	CancelButton    = ID("cphFuncionalidade_btnCancelar")
	CancelByName    = Name("ctl00$ctl00$cphFuncionalidade$btnCancelar")
	ReturnByText    = XPath("//input[@type='submit' and @value='Retornar'] | //button[normalize-space()='Retornar'] | //a[normalize-space()='Retornar']")
	UnplannedLesson = XPath("//div[@class='sequencial']//div[contains(@class, 'naoPlanejada')]")
	AxisDropdown    = ID("cphFuncionalidade_cphCampos_ddlEixo")
	Frames          = Tag("iframe")
)

const LessonNumberAttr = "numeroaula"

// Lesson tree widget.
var (
	TreeRoot   = ID("cphFuncionalidade_cphCampos_treeView")
	TreeGroups = CSS("div[id^='cphFuncionalidade_cphCampos_treeView'][id$='Nodes']")
	TreeRows   = Tag("table")
)

// TargetPriority lists, in order, where a clickable target is looked for
// inside a tree row before falling back to the row itself.
var TargetPriority = []Selector{
	XPath(".//input[(@type='checkbox' or @type='radio') and not(@disabled)]"),
	XPath(".//label"),
	XPath(".//a"),
}

// Scripts evaluated in the current document.
const (
	AsyncPostbackScript = `() => {
  try {
    return !!(window.Sys && Sys.WebForms && Sys.WebForms.PageRequestManager &&
      Sys.WebForms.PageRequestManager.getInstance() &&
      Sys.WebForms.PageRequestManager.getInstance().get_isInAsyncPostBack());
  } catch (e) {
    return false;
  }
}`
	ReadyStateScript = `() => document.readyState`
)
