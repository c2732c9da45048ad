package models

// BuiltinDefaultTemplate is the lease template the engine falls back to when
// no default exists, so the system always has something renderable. It is
// created on first use and editable afterwards like any other template.
func BuiltinDefaultTemplate() *LeaseTemplate {
	return &LeaseTemplate{
		Name:         "Standard Lease Agreement",
		Description:  "Built-in default lease agreement template",
		Body:         builtinDefaultTemplateBody,
		IsActive:     true,
		IsDefault:    true,
		VariableDocs: builtinTemplateVariableDocs,
	}
}

const builtinDefaultTemplateBody = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; color: #222; margin: 40px; }
  h1 { text-align: center; font-size: 22px; }
  h2 { font-size: 15px; border-bottom: 1px solid #999; padding-bottom: 4px; }
  .org { text-align: center; color: #555; font-size: 12px; }
  table { width: 100%; border-collapse: collapse; margin: 12px 0; }
  td { padding: 6px 4px; vertical-align: top; }
  td.label { width: 220px; font-weight: bold; }
  .signature-area { margin-top: 60px; }
</style>
</head>
<body>
  <h1>Residential Lease Agreement</h1>
  <p class="org">{{OrganizationName}} &middot; {{OrganizationAddress}} &middot; {{OrganizationPhone}} &middot; {{OrganizationEmail}}</p>

  <h2>Parties and Premises</h2>
  <table>
    <tr><td class="label">Tenant</td><td>{{TenantName}}</td></tr>
    <tr><td class="label">Contact</td><td>{{TenantPhone}} / {{TenantEmail}}</td></tr>
    <tr><td class="label">Emergency contact</td><td>{{EmergencyContact}}</td></tr>
    <tr><td class="label">Room</td><td>{{RoomNumber}} ({{RoomType}})</td></tr>
  </table>

  <h2>Term and Rent</h2>
  <table>
    <tr><td class="label">Lease start</td><td>{{StartDate}}</td></tr>
    <tr><td class="label">Lease end</td><td>{{EndDate}}</td></tr>
    <tr><td class="label">Duration</td><td>{{LeaseDurationMonths}} months</td></tr>
    <tr><td class="label">Monthly rent</td><td>{{RentAmount}}</td></tr>
    <tr><td class="label">Rent due</td><td>{{RentDueDay}} of each month</td></tr>
  </table>

  <h2>Terms</h2>
  <p>The tenant agrees to pay the monthly rent stated above on or before the
  {{RentDueDay}} of each calendar month for the duration of the lease term.
  The premises are to be used as a private residence only. The tenant shall
  keep the room in good condition and report maintenance issues promptly to
  the management office.</p>

  <div class="signature-area">
    <p>Generated on {{GeneratedDate}} at {{GeneratedTime}}.</p>
  </div>
</body>
</html>`

const builtinTemplateVariableDocs = `{
  "TenantName": "Full name of the tenant",
  "TenantPhone": "Tenant phone number, international format",
  "TenantEmail": "Tenant email address",
  "EmergencyContact": "Emergency contact name and phone",
  "RoomNumber": "Room number",
  "RoomType": "Room type description",
  "StartDate": "Lease start date",
  "EndDate": "Lease end date",
  "LeaseDurationMonths": "Lease duration in whole months",
  "RentAmount": "Monthly rent, money-formatted",
  "RentDueDay": "Ordinal day of month rent is due (e.g. 5th)",
  "GeneratedDate": "Date the document was generated",
  "GeneratedTime": "Time the document was generated",
  "OrganizationName": "Property management organization name",
  "OrganizationAddress": "Organization postal address",
  "OrganizationPhone": "Organization phone number",
  "OrganizationEmail": "Organization email address"
}`
