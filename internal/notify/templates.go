package notify

import "html/template"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #000000 0%, #e14f46 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: #f9fafb; padding: 30px; }
    .details-box { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #e14f46; }
    .button { background: #e14f46; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block; margin: 20px 0; }
    .footer { background: #111827; color: #9ca3af; padding: 20px; text-align: center; border-radius: 0 0 10px 10px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Application Submitted Successfully!</h1>
    </div>
    <div class="content">
      <p>Dear <strong>{{.Name}}</strong>,</p>
      <p>Thank you for submitting your {{if .IsFounder}}job pitch{{else}}application{{end}} to INCUBEZ Talent Stories!</p>
      <div class="details-box">
        <h3 style="margin-top: 0; color: #e14f46;">Application Details</h3>
        <p><strong>Application ID:</strong> {{.ApplicationID}}</p>
        <p><strong>Submitted On:</strong> {{.SubmittedAt}}</p>
        <p><strong>Amount Paid:</strong> &#8377;{{.AmountPaid}}</p>
        <p><strong>Status:</strong> Under Review</p>
      </div>
      <h3>What happens next?</h3>
      <ul>
        <li>Our team will review your submission within 24-48 hours</li>
        <li>Your video {{if .IsFounder}}pitch{{else}}application{{end}} will be made available to relevant matches</li>
        <li>You'll be notified once your application is approved</li>
        <li>{{if .IsFounder}}Qualified candidates will be able to view your pitch and apply{{else}}Founders looking for talent like you will be notified{{end}}</li>
      </ul>
      <div style="text-align: center;">
        <a href="{{.ClientURL}}" class="button">Visit INCUBEZ</a>
      </div>
      <p style="margin-top: 30px; padding: 15px; background: #fef3c7; border-radius: 6px; border-left: 4px solid #f59e0b;">
        <strong>Keep this email for your records.</strong><br>
        Your Application ID: <strong>{{.ApplicationID}}</strong>
      </p>
    </div>
    <div class="footer">
      <p><strong>INCUBEZ Talent Stories</strong></p>
      <p>Connecting founders with exceptional talent through video</p>
    </div>
  </div>
</body>
</html>`))

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #e14f46; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; }
    .info-box { background: white; padding: 15px; margin: 15px 0; border-radius: 6px; border-left: 4px solid #e14f46; }
    .action-button { background: #e14f46; color: white; padding: 10px 20px; text-decoration: none; border-radius: 6px; display: inline-block; margin: 10px 5px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2>New {{if .IsFounder}}Founder Pitch{{else}}Seeker Application{{end}} Received</h2>
    </div>
    <div class="content">
      <div class="info-box">
        <h3>Applicant Information</h3>
        <p><strong>Name:</strong> {{.Name}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        <p><strong>Phone:</strong> {{.Phone}}</p>
        {{if .LinkedInURL}}<p><strong>LinkedIn:</strong> <a href="{{.LinkedInURL}}">{{.LinkedInURL}}</a></p>{{end}}
        <p><strong>Application ID:</strong> <strong style="color: #e14f46;">{{.ApplicationID}}</strong></p>
      </div>
      {{if .Details}}
      <div class="info-box">
        <h3>{{if .IsFounder}}Startup Details{{else}}Professional Details{{end}}</h3>
        {{range .Details}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>
        {{end}}
      </div>
      {{end}}
      <div class="info-box">
        <h3>Video &amp; Submission</h3>
        {{if .VideoURL}}<p><strong>Video Link:</strong> <a href="{{.VideoURL}}">Watch Video</a></p>{{end}}
        <p><strong>Submitted:</strong> {{.SubmittedAt}}</p>
        <p><strong>Coupon Used:</strong> {{if .CouponCode}}{{.CouponCode}}{{else}}None{{end}}</p>
        <p><strong>Amount Paid:</strong> &#8377;{{.AmountPaid}}</p>
      </div>
      <div style="text-align: center; margin-top: 20px;">
        {{if .VideoURL}}<a href="{{.VideoURL}}" class="action-button">Watch Video</a>{{end}}
        {{if .SheetURL}}<a href="{{.SheetURL}}" class="action-button">View in Sheets</a>{{end}}
      </div>
      <p style="margin-top: 20px; padding: 15px; background: #fef3c7; border-radius: 6px;">
        <strong>Action Required:</strong> Review this submission and update its status.
      </p>
    </div>
  </div>
</body>
</html>`))
