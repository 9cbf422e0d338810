package ai

// Every prompt constrains the reply to fenced JSON with a fixed shape; the
// engine rejects anything else.

const prioritizePrompt = `You are an AI productivity coach. Categorize these tasks into smart priority groups and provide actionable tips for each task.

Tasks:
%s

Return ONLY JSON with this structure:

{
  "focus": [
    {
      "title": "task title",
      "description": "task description",
      "_id": "task id",
      "tip": "A specific, actionable tip to help complete this task efficiently",
      "estimatedTime": "15-30 min",
      "difficulty": "Medium",
      "aiInsight": "Why this is high priority and how to approach it"
    }
  ],
  "quick_wins": [],
  "deep_work": [],
  "optional": []
}

For each task provide:
- tip: Specific, actionable advice (1-2 sentences)
- estimatedTime: Realistic time estimate (e.g., "10-15 min", "1-2 hours")
- difficulty: Easy, Medium, Hard, or Extreme
- aiInsight: Brief explanation of priority and approach strategy

Make tips:
- Specific and actionable
- Practical and realistic
- Encouraging but not generic
- Include time-saving strategies when relevant`

const breakdownPrompt = `Break down this task into 3-5 smaller, manageable action steps:
Task: %s
Description: %s

Make each step specific and actionable.
Return ONLY JSON: { "steps": ["step 1", "step 2", ...] }`

const motivatePrompt = `Provide HIGH-ENERGY motivation for this task in 2-3 sentences:
Task: %s

Be enthusiastic, empowering, and action-focused. Use powerful language.
Return ONLY JSON: { "message": "your motivational message" }`

const strategyPrompt = `Provide a WINNING STRATEGY for this task:
Task: %s
Description: %s

Give 2-3 tactical approaches or pro tips to crush this task efficiently.
Return ONLY JSON: { "strategies": ["strategy 1", "strategy 2", ...] }`

const obstaclesPrompt = `Identify potential obstacles for this task and how to overcome them:
Task: %s

List 2-3 common blockers and quick solutions.
Return ONLY JSON: { "obstacles": [{"blocker": "issue", "solution": "fix"}] }`

const tipPrompt = `Provide a specific, actionable tip for completing this task efficiently:
Task: %s

Return ONLY JSON: {
  "tip": "specific actionable advice",
  "estimatedTime": "15-30 min",
  "difficulty": "Medium"
}`

const workspacePrompt = `You are a productivity assistant helping users apply different focus techniques.

Technique: %s
Available UI Components: %s

Task Title: %s
Description: %s

Generate a workspace plan for this technique, tailored to the task.
Use ONLY the provided components when suggesting a UI.

Respond STRICTLY in JSON with:
{
  "ui_components": ["selected components from list"],
  "layout": "layout type (%s)",
  "guidance": "clear motivational instructions",
  "html_summary": "short HTML snippet for top section (no scripts, safe HTML)"
}

Be concise and user-friendly. Avoid developer jargon.
Example HTML: <h2>Focus Time</h2><p>Let's master React in short Pomodoro sprints.</p>`
