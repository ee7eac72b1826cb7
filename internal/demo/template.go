package demo

// AdoptAHighwayTemplate is the sample requirements document used when a
// conversion request carries no document of its own.
const AdoptAHighwayTemplate = `
County Adopt-A-Highway Volunteer Program – Full Requirements Gathering Template

Section 1 – Program Context
County Name: _______________
Program Type: Volunteer Cleanup Program
Participating Departments: (e.g., Public Works, Environmental Services, GIS, Communications)
Program Duration / Renewal Cycle: (e.g., 2 years, renewable based on compliance)
Key Roles:
- Program Coordinator
- Maintenance Supervisor
- Volunteer Group Leader
Local Policies / Constraints: (e.g., safety gear rules, minimum group size, cleanup frequency, sign text restrictions)
Authentication: Username/password, MFA, SSO integration
Program Goals:
- Maintain highway cleanliness
- Promote civic pride
- Reduce cleanup costs

Section 2 – Volunteer User Requirements
V-01: Register and activate account - Define registration workflow and verification type
V-02: Browse or draw highway segments - Decide if users can free-draw or select from layer
V-03: Apply online to adopt segment - Specify required data and validation rules
V-04: Specify sign text/logo for recognition - Set compliance rules for sign content
V-05: Download and sign safety waiver - Choose waiver submission process (digital/paper)
V-06: Submit cleanup request for approval - Define notice period and approval process
V-07: Complete pre-cleanup checklist - Decide checklist items (safety video, PPE, weather check)
V-08: Submit cleanup report with photos - Define required photo and data uploads
V-09: Receive cleanup reminders - Choose frequency for notifications
V-10: Receive thank-you certificate - Specify trigger and template format
V-11: View dashboard (segments and compliance) - Define metrics displayed
V-12: Relinquish segment - Decide process for release and reassignment

Section 3 – County Staff Requirements
C-01: Review and approve volunteer applications - Specify workflow and routing rules
C-02: Approve sign text and logo - Define design approval and rejection handling
C-03: Set cleanup frequency and monitor compliance - Define standard number of cleanups per year
C-04: Cancel/reschedule cleanups safely - Determine escalation and notification policy
C-05: Send automated reminders - Choose email templates and timing
C-06: Review cleanup reports - Define review process and audit trail
C-07: Generate reports - Decide report formats and frequency
C-08: Flag inactive groups - Set inactivity threshold (e.g., 12 months)
C-09: Send letters and certificates - Choose automation and templates

Section 4 – GIS Configuration & Mapping Requirements
Purpose: Define how the county wants to manage highway segment mapping and GIS integration in the Delasoft Adopt-A-Highway system.

Do you already have a GIS layer for Adopt-A-Highway segments? Yes/No
Can Delasoft connect directly to your GIS service? Yes/No
Should volunteers free-draw or select predefined segments? Free-draw/Select
Who maintains GIS data? County GIS Team/Delasoft/Shared
Do you want Delasoft to build the initial segment layer? Yes/No
Attributes to include in each segment: SegmentID, RoadName, County, StartMilepost, EndMilepost, Length, Direction, SideOfRoad, Status
GIS Sync Frequency: Real-time/Scheduled
Auto-update segment status after approvals? Yes/No
Enable map filters? Yes/No
Map access level: Public/Registered users only
Show cleanup or risk icons? Yes/No
Auto-calculate segment length? Yes/No

Section 5 – Workflow Requirements
Application Intake: Online submission → staff review → approval
Cleanup Scheduling: Volunteer request → staff approval → calendar update
Reminder Automation: Auto-reminders before due cleanups
Cleanup Report Review: Volunteer submits report → staff validates → certificate
Cancellation & Rescheduling: Staff cancels → volunteer notified → reschedule allowed
Renewal & Relinquishment: System sends renewal reminders → staff approval

Section 6 – Notes & Decisions Log
Waiver Process: Digital Upload via Portal/Paper PDF Upload by Staff/Both
Sign Fabrication: County Sign Shop (internal)/External Contractor/Hybrid
Reminder Settings: Auto 30/15/5-day email sequence/Manual notifications by staff
Cleanup Frequency: 4 per year (standard)/2 per year (rural/low traffic)/Custom by district
Renewal Process: Auto-renew if compliant/Manual review by coordinator/Renewal request required
Inactivity Threshold: 6 months without cleanup/12 months without cleanup (default)/Custom threshold
Certificate Distribution: Auto-email PDF after approval/Staff-issued manually/Both (auto + annual recognition event)
Cleanup Cancellation Policy: Can be canceled by staff only/Volunteers may cancel with reason/Must be rescheduled within 30 days
`
